package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PosterRepo struct{ DB *pgxpool.Pool }

func (r *PosterRepo) Get(ctx context.Context, id string) (*Poster, error) {
	var p Poster
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, image_url, created_at, updated_at FROM posters WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PosterRepo) List(ctx context.Context) ([]Poster, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, image_url, created_at, updated_at FROM posters ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Poster
	for rows.Next() {
		var p Poster
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PosterRepo) Create(ctx context.Context, p *Poster) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.DB.Exec(ctx,
		`INSERT INTO posters(id, name, image_url, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PosterRepo) Update(ctx context.Context, p *Poster) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE posters SET name=$2, image_url=$3, updated_at=now() WHERE id=$1`,
		p.ID, p.Name, p.ImageURL)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PosterRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM posters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hariansyahfajrin/mart-api/internal/catalog"
)

type CatalogHandler struct {
	Products   *catalog.ProductRepo
	Categories *catalog.CategoryRepo
	Posters    *catalog.PosterRepo
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
		r.Post("/", h.createProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{id}", h.getCategory)
		r.Post("/", h.createCategory)
		r.Put("/{id}", h.updateCategory)
		r.Delete("/{id}", h.deleteCategory)
	})
	r.Route("/posters", func(r chi.Router) {
		r.Get("/", h.listPosters)
		r.Get("/{id}", h.getPoster)
		r.Post("/", h.createPoster)
		r.Put("/{id}", h.updatePoster)
		r.Delete("/{id}", h.deletePoster)
	})
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

/* ---- products ---- */

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	ps, err := h.Products.List(ctx)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Products retrieved successfully.", ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	p, err := h.Products.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Product retrieved successfully.", p)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" {
		fail(w, http.StatusBadRequest, "Name is required.")
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Products.Create(ctx, &p); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Product created successfully.", p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" {
		fail(w, http.StatusBadRequest, "Name is required.")
		return
	}
	p.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Products.Update(ctx, &p); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Product updated successfully.", p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Products.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Product deleted successfully.", nil)
}

/* ---- categories ---- */

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	cs, err := h.Categories.List(ctx)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Categories retrieved successfully.", cs)
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Categories.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Category retrieved successfully.", c)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if c.Name == "" {
		fail(w, http.StatusBadRequest, "Name is required.")
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Categories.Create(ctx, &c); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Category created successfully.", c)
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if c.Name == "" || c.ImageURL == "" {
		fail(w, http.StatusBadRequest, "Name and image are required.")
		return
	}
	c.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Categories.Update(ctx, &c); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Category updated successfully.", c)
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Categories.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Category deleted successfully.", nil)
}

/* ---- posters ---- */

func (h *CatalogHandler) listPosters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	ps, err := h.Posters.List(ctx)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Posters retrieved successfully.", ps)
}

func (h *CatalogHandler) getPoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	p, err := h.Posters.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Poster retrieved successfully.", p)
}

func (h *CatalogHandler) createPoster(w http.ResponseWriter, r *http.Request) {
	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" {
		fail(w, http.StatusBadRequest, "Name is required.")
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Posters.Create(ctx, &p); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Poster created successfully.", p)
}

func (h *CatalogHandler) updatePoster(w http.ResponseWriter, r *http.Request) {
	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" || p.ImageURL == "" {
		fail(w, http.StatusBadRequest, "Name and image are required.")
		return
	}
	p.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Posters.Update(ctx, &p); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Poster updated successfully.", p)
}

func (h *CatalogHandler) deletePoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Posters.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Poster deleted successfully.", nil)
}

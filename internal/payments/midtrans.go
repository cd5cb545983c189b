package payments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

var ErrTransactionNotFound = errors.New("transaction doesn't exist")

// SnapTransaction is the token/redirect pair the mobile client uses to open
// the Midtrans Snap page.
type SnapTransaction struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type MidtransRequest struct {
	Amount      int64  `json:"amount"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

type MidtransClient struct {
	snap snap.Client
	core coreapi.Client
}

func NewMidtransClient(serverKey string, production bool) *MidtransClient {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	c := &MidtransClient{}
	c.snap.New(serverKey, env)
	c.core.New(serverKey, env)
	return c
}

// CreateTransaction opens a Snap transaction under a generated 8-digit
// order id.
func (c *MidtransClient) CreateTransaction(_ context.Context, req MidtransRequest) (*SnapTransaction, error) {
	orderID, err := digits(8)
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	resp, mErr := c.snap.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{Email: req.Email},
		Items: &[]midtrans.ItemDetails{{
			ID:    orderID,
			Price: req.Amount,
			Qty:   1,
			Name:  req.Description,
		}},
	})
	if mErr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", mErr)
	}

	return &SnapTransaction{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// TransactionStatus reports the provider-side status of a transaction.
func (c *MidtransClient) TransactionStatus(_ context.Context, orderID string) (string, error) {
	resp, mErr := c.core.CheckTransaction(orderID)
	if mErr != nil {
		return "", fmt.Errorf("midtrans check transaction: %w", mErr)
	}
	if resp.StatusCode == "404" {
		return "", ErrTransactionNotFound
	}
	return resp.TransactionStatus, nil
}

func digits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		v := d.Int64()
		if i == 0 {
			v++
		}
		out[i] = byte('0' + v)
	}
	return string(out), nil
}

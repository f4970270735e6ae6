package services

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"github.com/bistroboard/bistroboard/models"
)

// PaymentGateway wraps the Midtrans core API for online order payments.
// Cash payments never touch it; they go straight through the payment-status
// endpoint.
type PaymentGateway struct {
	client    coreapi.Client
	serverKey string
}

// NewPaymentGateway reads MIDTRANS_SERVER_KEY / MIDTRANS_ENV. With no server
// key the gateway is present but unconfigured, and charge attempts report
// that instead of failing obscurely.
func NewPaymentGateway() *PaymentGateway {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")

	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	gw := &PaymentGateway{serverKey: serverKey}
	if serverKey != "" {
		gw.client.New(serverKey, env)
	}
	return gw
}

func (gw *PaymentGateway) Configured() bool {
	return gw.serverKey != ""
}

// ChargeQRIS creates a QRIS charge for the order and returns the gateway
// transaction reference and the QR code URL.
func (gw *PaymentGateway) ChargeQRIS(order *models.Order) (ref string, qrURL string, err error) {
	if !gw.Configured() {
		return "", "", errors.New("payment gateway not configured")
	}

	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeQris,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderNumber,
			GrossAmt: int64(order.Total),
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: order.CustomerName,
		},
	}

	resp, chargeErr := gw.client.ChargeTransaction(req)
	if chargeErr != nil {
		return "", "", chargeErr
	}

	if len(resp.Actions) > 0 {
		qrURL = resp.Actions[0].URL
	}
	return resp.TransactionID, qrURL, nil
}

// VerifySignature checks a notification's signature_key:
// sha512(order_id + status_code + gross_amount + server_key).
func (gw *PaymentGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if !gw.Configured() {
		return false
	}
	sum := sha512.Sum512([]byte(fmt.Sprintf("%s%s%s%s", orderID, statusCode, grossAmount, gw.serverKey)))
	return hex.EncodeToString(sum[:]) == signature
}

// MapTransactionStatus translates a gateway transaction status into the
// order's payment status axis.
func MapTransactionStatus(transactionStatus string) (models.PaymentStatus, bool) {
	switch transactionStatus {
	case "capture", "settlement":
		return models.PaymentPaid, true
	case "pending":
		return models.PaymentPending, true
	case "deny", "cancel", "expire", "failure":
		return models.PaymentFailed, true
	case "refund", "partial_refund":
		return models.PaymentRefunded, true
	}
	return "", false
}

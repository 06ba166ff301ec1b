package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	StoreName string
}

// mailSender dipenuhi oleh *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer mengirim email konfirmasi order lewat SMTP
type SMTPMailer struct {
	sender    mailSender
	from      string
	storeName string
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	return &SMTPMailer{
		sender:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:      cfg.From,
		storeName: cfg.StoreName,
	}
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildOrderConfirmation(to, order)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send order confirmation to %s: %w", to, err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"to":           to,
	}).Info("Order confirmation email sent")
	return nil
}

func (m *SMTPMailer) buildOrderConfirmation(to string, order *models.Order) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, struct {
		StoreName string
		Order     *models.Order
	}{m.storeName, order}); err != nil {
		return nil, fmt.Errorf("render order confirmation: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("[%s] Pesanan %s diterima", m.storeName, order.OrderNumber))
	msg.SetBody("text/html", body.String())
	return msg, nil
}

// LogMailer dipakai saat SMTP belum dikonfigurasi, email hanya dicatat di log
type LogMailer struct{}

func (LogMailer) SendOrderConfirmation(_ context.Context, to string, order *models.Order) error {
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"to":           to,
	}).Info("SMTP disabled, skipping order confirmation email")
	return nil
}

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Funcs(template.FuncMap{
	"rupiah": utils.FormatCurrencyIDR,
}).Parse(`<h2>Terima kasih, {{.Order.CustomerName}}!</h2>
<p>Pesanan <strong>{{.Order.OrderNumber}}</strong> di {{.StoreName}} sudah kami terima dan menunggu konfirmasi.</p>
<table cellpadding="6" border="1" style="border-collapse:collapse">
<tr><th>Produk</th><th>Qty</th><th>Harga</th><th>Total</th></tr>
{{range .Order.OrderItems}}<tr><td>{{.ProductName}} ({{.ProductVariantWeight}})</td><td>{{.Quantity}}</td><td>{{rupiah .UnitPrice}}</td><td>{{rupiah .TotalPrice}}</td></tr>
{{end}}</table>
<p>Subtotal: {{rupiah .Order.Subtotal}}<br>
Ongkir: {{rupiah .Order.ShippingCost}}<br>
<strong>Total: {{rupiah .Order.TotalAmount}}</strong></p>
<p>Metode pengiriman: {{.Order.ShippingMethod}}{{with .Order.DeliveryDay}} (hari {{.}}){{end}}<br>
Metode pembayaran: {{.Order.PaymentMethod}}</p>`))

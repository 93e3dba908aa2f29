// Package asaas adaptador REST del proveedor de cobros Asaas.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/domain"
)

// Verificar en tiempo de compilación que Client implementa billing.Provider.
var _ billing.Provider = (*Client)(nil)

const maxResponseBytes = 256 * 1024

// Client cliente HTTP de la API v3 de Asaas. La clave viaja en el header access_token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el adaptador. timeout <= 0 usa 15 s.
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ── Estructuras del protocolo ─────────────────────────────────────────────────

type customerRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	CpfCnpj           string `json:"cpfCnpj"`
	ExternalReference string `json:"externalReference"`
}

type creditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

type creditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
}

type subscriptionRequest struct {
	Customer             string                `json:"customer"`
	BillingType          string                `json:"billingType"`
	Value                json.Number           `json:"value"`
	NextDueDate          string                `json:"nextDueDate"`
	Cycle                string                `json:"cycle"`
	Description          string                `json:"description"`
	ExternalReference    string                `json:"externalReference"`
	CreditCard           *creditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *creditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

type idResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type paymentsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		DueDate string `json:"dueDate"`
	} `json:"data"`
}

type pixQRCodeResponse struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type errorResponse struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

func (c *Client) CreateCustomer(ctx context.Context, in billing.CustomerInput) (string, error) {
	var out idResponse
	err := c.do(ctx, http.MethodPost, "/customers", "customers", customerRequest{
		Name:              in.Name,
		Email:             in.Email,
		CpfCnpj:           in.CpfCnpj,
		ExternalReference: in.ExternalReference,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &domain.ProviderError{Op: "customers", Description: "respuesta sin id de cliente"}
	}
	return out.ID, nil
}

func (c *Client) CreateSubscription(ctx context.Context, in billing.SubscriptionInput) (*billing.RemoteSubscription, error) {
	req := subscriptionRequest{
		Customer:          in.CustomerID,
		BillingType:       string(in.BillingType),
		Value:             json.Number(in.Value.StringFixed(2)),
		NextDueDate:       in.NextDueDate.Format("2006-01-02"),
		Cycle:             string(in.Cycle),
		Description:       in.Description,
		ExternalReference: in.ExternalReference,
	}
	if cc := in.CreditCard; cc != nil {
		req.CreditCard = &creditCard{HolderName: cc.HolderName, Number: cc.Number, ExpiryMonth: cc.ExpiryMonth, ExpiryYear: cc.ExpiryYear, CCV: cc.CCV}
	}
	if h := in.HolderInfo; h != nil {
		req.CreditCardHolderInfo = &creditCardHolderInfo{Name: h.Name, Email: h.Email, CpfCnpj: h.CpfCnpj, PostalCode: h.PostalCode, AddressNumber: h.AddressNumber, Phone: h.Phone}
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/subscriptions", "subscriptions", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &domain.ProviderError{Op: "subscriptions", Description: "respuesta sin id de suscripción"}
	}
	return &billing.RemoteSubscription{ID: out.ID, Status: out.Status}, nil
}

func (c *Client) ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]billing.RemotePayment, error) {
	var out paymentsResponse
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+subscriptionID+"/payments", "payments", nil, &out); err != nil {
		return nil, err
	}
	payments := make([]billing.RemotePayment, 0, len(out.Data))
	for _, p := range out.Data {
		payments = append(payments, billing.RemotePayment{ID: p.ID, Status: p.Status, DueDate: p.DueDate})
	}
	return payments, nil
}

func (c *Client) GetPixQRCode(ctx context.Context, paymentID string) (*billing.PixQRCode, error) {
	var out pixQRCodeResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID+"/pixQrCode", "pixQrCode", nil, &out); err != nil {
		return nil, err
	}
	return &billing.PixQRCode{EncodedImage: out.EncodedImage, Payload: out.Payload, ExpirationDate: out.ExpirationDate}, nil
}

// do ejecuta la llamada y decodifica la respuesta en out.
// Un 4xx o un cuerpo con "errors" se devuelve como *domain.ProviderError;
// fallos de red y 5xx se devuelven como error plano (resultado remoto desconocido).
func (c *Client) do(ctx context.Context, method, path, op string, in, out any) error {
	if c.apiKey == "" {
		return &domain.ProviderError{Op: op, Description: "ASAAS_API_KEY no configurado"}
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("asaas %s: serializar request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("asaas %s: crear request: %w", op, err)
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("asaas %s: timeout o cancelación: %w", op, ctx.Err())
		}
		return fmt.Errorf("asaas %s: llamada HTTP fallida: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("asaas %s: leer respuesta: %w", op, err)
	}
	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("asaas")

	var apiErr errorResponse
	_ = json.Unmarshal(raw, &apiErr)
	if len(apiErr.Errors) > 0 && resp.StatusCode < 500 {
		return &domain.ProviderError{Op: op, Status: resp.StatusCode, Description: apiErr.Errors[0].Description}
	}
	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("asaas %s: HTTP %d", op, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &domain.ProviderError{Op: op, Status: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("asaas %s: decodificar respuesta: %w", op, err)
	}
	return nil
}

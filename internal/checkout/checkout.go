package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	currency           = "eur"
	productDescription = "One-time payment for lifetime access to AI tools."
	productImage       = "https://picsum.photos/seed/vetorre/200/200"

	// maxWebhookBody bounds the signed payload read from Stripe.
	maxWebhookBody = 65536
)

type Price struct {
	Amount  int64
	Product string
}

// Prices are one-time amounts in euro cents, keyed by the plan name the pricing page posts.
var Prices = map[string]Price{
	"Starter": {Amount: 999, Product: "VETORRE Starter (Lifetime Access)"},
	"Pro":     {Amount: 1999, Product: "VETORRE Pro (Lifetime Access)"},
}

var ErrInvalidPlan = errors.New("invalid plan")

// SessionCreator opens a hosted checkout session.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// PlanSetter records the plan bought by a user.
type PlanSetter interface {
	SetPlan(ctx context.Context, userID, plan string) error
}

type Handler struct {
	secretKey     string
	webhookSecret string
	origins       []string
	sessions      SessionCreator
	plans         PlanSetter
}

// NewHandler builds the checkout handler. A nil plans disables plan updates from
// the webhook, as in local mode.
func NewHandler(secretKey, webhookSecret string, origins []string, plans PlanSetter) *Handler {
	return &Handler{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		origins:       origins,
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		plans:         plans,
	}
}

type createRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

// CreateCheckout handles every method on the checkout route so it can answer
// preflight requests and reject other verbs itself.
func (h *Handler) CreateCheckout(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if h.allowed(origin) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	if h.secretKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Stripe configuration missing"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, err := h.sessionParams(req, h.redirectOrigin(origin))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan selected"})
		return
	}

	s, err := h.sessions.New(params)
	if err != nil {
		slog.Error("error creating checkout session", "user_id", req.UserID, "plan", req.Plan, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": stripeMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

func (h *Handler) sessionParams(req createRequest, origin string) (*stripe.CheckoutSessionParams, error) {
	price, ok := Prices[req.Plan]
	if !ok {
		return nil, ErrInvalidPlan
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(price.Product),
					Description: stripe.String(productDescription),
					Images:      stripe.StringSlice([]string{productImage}),
				},
				UnitAmount: stripe.Int64(price.Amount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(origin + "/#/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(origin + "/#/pricing"),
		ClientReferenceID: stripe.String(req.UserID),
	}
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("plan", strings.ToLower(req.Plan))
	return params, nil
}

func (h *Handler) allowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, o := range h.origins {
		if o == origin {
			return true
		}
	}
	return false
}

// redirectOrigin is the request origin when allow-listed, otherwise the first allowed origin.
func (h *Handler) redirectOrigin(origin string) string {
	if h.allowed(origin) || len(h.origins) == 0 {
		return origin
	}
	return h.origins[0]
}

// Webhook applies completed checkouts to the buyer's profile.
func (h *Handler) Webhook(c *gin.Context) {
	if h.webhookSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Warn("rejected webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		slog.Error("error decoding checkout session", "event_id", event.ID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout session"})
		return
	}

	userID, plan := s.Metadata["userId"], s.Metadata["plan"]
	if userID == "" || plan == "" {
		slog.Warn("checkout session without metadata", "session_id", s.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if h.plans == nil {
		slog.Warn("plan update skipped, no remote database", "user_id", userID, "plan", plan)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.plans.SetPlan(c.Request.Context(), userID, plan); err != nil {
		slog.Error("error setting plan", "user_id", userID, "plan", plan, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}

	slog.Info("plan purchased", "user_id", userID, "plan", plan)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func stripeMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}

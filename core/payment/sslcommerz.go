package payment

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/irsalhamdi/eduverse/config"
)

var (
	ErrUnsigned     = errors.New("callback is not signed")
	ErrBadSignature = errors.New("callback signature mismatch")
	ErrUnsignedKey  = errors.New("callback does not sign a required field")
	ErrGateway      = errors.New("payment gateway refused the request")
)

// Checkout is what the hosted payment page needs to bill a buyer.
type Checkout struct {
	TranID        string
	Amount        int
	Product       Product
	CustomerName  string
	CustomerEmail string
}

type Session struct {
	Key        string
	GatewayURL string
}

type Validation struct {
	Status string `json:"status"`
	TranID string `json:"tran_id"`
	Amount string `json:"amount"`
	ValID  string `json:"val_id"`
}

func (v Validation) Valid() bool {
	return v.Status == "VALID" || v.Status == "VALIDATED"
}

// Gateway is a hosted checkout reached over HTTP.
type Gateway interface {
	InitSession(ctx context.Context, c Checkout) (Session, error)
	Validate(ctx context.Context, valID string) (Validation, error)
}

// SSLCommerz talks to the SSLCommerz session and validation APIs.
type SSLCommerz struct {
	client *resty.Client
	cfg    config.SSLCommerz
}

func NewSSLCommerz(cfg config.SSLCommerz) *SSLCommerz {
	c := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &SSLCommerz{client: c, cfg: cfg}
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (s *SSLCommerz) InitSession(ctx context.Context, c Checkout) (Session, error) {
	form := map[string]string{
		"store_id":         s.cfg.StoreID,
		"store_passwd":     s.cfg.StorePassword,
		"total_amount":     FormatAmount(c.Amount),
		"currency":         s.cfg.Currency,
		"tran_id":          c.TranID,
		"success_url":      s.cfg.SuccessURL,
		"fail_url":         s.cfg.FailURL,
		"cancel_url":       s.cfg.CancelURL,
		"cus_name":         c.CustomerName,
		"cus_email":        c.CustomerEmail,
		"cus_add1":         "N/A",
		"cus_city":         "N/A",
		"cus_country":      "N/A",
		"cus_phone":        "N/A",
		"shipping_method":  "NO",
		"num_of_item":      "1",
		"product_name":     c.Product.Title,
		"product_category": string(c.Product.Kind),
		"product_profile":  "non-physical-goods",
		"value_a":          string(c.Product.Kind),
		"value_b":          c.Product.ID,
	}

	var out sessionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		ForceContentType("application/json").
		SetResult(&out).
		Post("/gwprocess/v4/api.php")
	if err != nil {
		return Session{}, fmt.Errorf("opening gateway session: %w", err)
	}

	if resp.IsError() {
		return Session{}, fmt.Errorf("opening gateway session: status %s: %w", resp.Status(), ErrGateway)
	}

	if !strings.EqualFold(out.Status, "SUCCESS") || out.GatewayPageURL == "" {
		return Session{}, fmt.Errorf("opening gateway session: %s: %w", out.FailedReason, ErrGateway)
	}

	return Session{Key: out.SessionKey, GatewayURL: out.GatewayPageURL}, nil
}

func (s *SSLCommerz) Validate(ctx context.Context, valID string) (Validation, error) {
	var out Validation
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"val_id":       valID,
			"store_id":     s.cfg.StoreID,
			"store_passwd": s.cfg.StorePassword,
			"format":       "json",
		}).
		ForceContentType("application/json").
		SetResult(&out).
		Get("/validator/api/validationserverAPI.php")
	if err != nil {
		return Validation{}, fmt.Errorf("validating payment[%s]: %w", valID, err)
	}

	if resp.IsError() {
		return Validation{}, fmt.Errorf("validating payment[%s]: status %s: %w", valID, resp.Status(), ErrGateway)
	}

	return out, nil
}

// Sign computes the callback signature over the fields named in keys: the
// md5 of the sorted key=value pairs, with the md5 of the store password
// mixed in as store_passwd.
func Sign(form url.Values, keys []string, storePassword string) string {
	data := make(map[string]string, len(keys)+1)
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		data[k] = form.Get(k)
	}
	data["store_passwd"] = md5Hex(storePassword)

	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, k := range names {
		pairs[i] = k + "=" + data[k]
	}

	return md5Hex(strings.Join(pairs, "&"))
}

// CallbackKeys are the fields a success callback must sign.
var CallbackKeys = []string{"tran_id", "amount", "status"}

// VerifySignature checks the verify_sign and verify_key fields a gateway
// callback carries. Every name in required must be among the signed keys.
func VerifySignature(form url.Values, storePassword string, required ...string) error {
	sign := form.Get("verify_sign")
	keys := form.Get("verify_key")
	if sign == "" || keys == "" {
		return ErrUnsigned
	}

	signed := strings.Split(keys, ",")

	listed := make(map[string]bool, len(signed))
	for _, k := range signed {
		listed[strings.TrimSpace(k)] = true
	}
	for _, k := range required {
		if !listed[k] {
			return fmt.Errorf("%s: %w", k, ErrUnsignedKey)
		}
	}

	want := Sign(form, signed, storePassword)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(sign))) != 1 {
		return ErrBadSignature
	}
	return nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object from the body into dst. Unknown
// fields and trailing data are rejected as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		var dateErr *dateError
		var fieldErr *core.Error
		switch {
		case errors.Is(err, io.EOF):
			return core.Validation("body", "request body is empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return core.Validation("body", "malformed JSON")
		case errors.As(err, &typeErr):
			return core.Validationf(typeErr.Field, "must be a %s", typeErr.Type)
		case errors.As(err, &maxErr):
			return core.Validationf("body", "request body must not exceed %d bytes", maxBodyBytes)
		case errors.As(err, &dateErr):
			return core.Validation("date", dateErr.Error())
		case errors.As(err, &fieldErr):
			return fieldErr
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return core.Validationf("body", "unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return core.Validation("body", "invalid request body")
	}
	if dec.More() {
		return core.Validation("body", "request body must contain a single JSON object")
	}
	return nil
}

// ParseMonthParams reads month and year from the query, defaulting each to
// the current month. Non-numeric values are rejected; range checks are left
// to core.Period.Validate in the services.
func ParseMonthParams(query url.Values, now time.Time) (core.Period, error) {
	p := core.PeriodOf(now)
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, core.Validationf("month", "invalid month %q", v)
		}
		p.Month = m
	}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, core.Validationf("year", "invalid year %q", v)
		}
		p.Year = y
	}
	return p, nil
}

// sanitizeInput trims s and drops control characters.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s))
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

// Date accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD date.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

type dateError struct {
	value string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid date %q: use YYYY-MM-DD or RFC 3339", e.value)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &dateError{value: string(b)}
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return &dateError{value: s}
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func (d *Date) value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// Amount accepts a JSON number or a decimal string such as "12,50".
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return core.Validation("amount", "invalid amount")
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return core.Validationf("amount", "invalid amount %s", b)
	}
	*a = Amount(v)
	return nil
}

func (a *Amount) ptr() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}

// Request bodies. Update bodies use pointers so absent fields stay untouched.
type (
	categoryRequest struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}

	categoryPatchRequest struct {
		Name  *string `json:"name"`
		Type  *string `json:"type"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}

	walletRequest struct {
		Name           string  `json:"name"`
		Type           string  `json:"type"`
		Icon           string  `json:"icon"`
		Color          string  `json:"color"`
		Month          int     `json:"month"`
		Year           int     `json:"year"`
		OpeningBalance float64 `json:"openingBalance"`
	}

	walletPatchRequest struct {
		Name  *string `json:"name"`
		Type  *string `json:"type"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}

	transactionRequest struct {
		Type         string `json:"type"`
		Amount       Amount `json:"amount"`
		FromWalletID string `json:"fromWalletId"`
		ToWalletID   string `json:"toWalletId"`
		CategoryID   string `json:"categoryId"`
		Date         *Date  `json:"date"`
		Notes        string `json:"notes"`
	}

	transactionPatchRequest struct {
		Type         *string `json:"type"`
		Amount       *Amount `json:"amount"`
		FromWalletID *string `json:"fromWalletId"`
		ToWalletID   *string `json:"toWalletId"`
		CategoryID   *string `json:"categoryId"`
		Date         *Date   `json:"date"`
		Notes        *string `json:"notes"`
	}

	budgetRequest struct {
		CategoryID   string  `json:"categoryId"`
		MonthlyLimit float64 `json:"monthlyLimit"`
		Month        int     `json:"month"`
		Year         int     `json:"year"`
	}

	budgetPatchRequest struct {
		CategoryID   *string  `json:"categoryId"`
		MonthlyLimit *float64 `json:"monthlyLimit"`
		Month        *int     `json:"month"`
		Year         *int     `json:"year"`
	}

	savingsRequest struct {
		Name          string   `json:"name"`
		TargetAmount  float64  `json:"targetAmount"`
		MonthlyTarget *float64 `json:"monthlyTarget"`
		Description   string   `json:"description"`
		Icon          string   `json:"icon"`
		Color         string   `json:"color"`
		Status        string   `json:"status"`
	}

	savingsPatchRequest struct {
		Name          *string  `json:"name"`
		TargetAmount  *float64 `json:"targetAmount"`
		MonthlyTarget *float64 `json:"monthlyTarget"`
		Description   *string  `json:"description"`
		Icon          *string  `json:"icon"`
		Color         *string  `json:"color"`
		Status        *string  `json:"status"`
	}

	savingsTransactionRequest struct {
		Type   string `json:"type"`
		Amount Amount `json:"amount"`
		Notes  string `json:"notes"`
		Date   *Date  `json:"date"`
	}

	dueRequest struct {
		Name        string `json:"name"`
		Amount      Amount `json:"amount"`
		Date        *Date  `json:"date"`
		Status      string `json:"status"`
		Description string `json:"description"`
	}

	duePatchRequest struct {
		Name        *string `json:"name"`
		Amount      *Amount `json:"amount"`
		Date        *Date   `json:"date"`
		Status      *string `json:"status"`
		Description *string `json:"description"`
	}

	dueTransactionRequest struct {
		Type        string `json:"type"`
		Amount      Amount `json:"amount"`
		Description string `json:"description"`
		Date        *Date  `json:"date"`
	}
)

// typed converts an optional string into an optional enum value.
func typed[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(strings.TrimSpace(*s))
	return &v
}

func (r categoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:  sanitizeInput(r.Name),
		Type:  core.CategoryType(strings.TrimSpace(r.Type)),
		Icon:  sanitizeInput(r.Icon),
		Color: sanitizeInput(r.Color),
	}
}

func (r categoryPatchRequest) patch() services.CategoryPatch {
	return services.CategoryPatch{
		Name:  sanitizePtr(r.Name),
		Type:  typed[core.CategoryType](r.Type),
		Icon:  sanitizePtr(r.Icon),
		Color: sanitizePtr(r.Color),
	}
}

func (r walletRequest) input() services.WalletInput {
	return services.WalletInput{
		Name:           sanitizeInput(r.Name),
		Type:           core.WalletType(strings.TrimSpace(r.Type)),
		Icon:           sanitizeInput(r.Icon),
		Color:          sanitizeInput(r.Color),
		Month:          r.Month,
		Year:           r.Year,
		OpeningBalance: r.OpeningBalance,
	}
}

func (r walletPatchRequest) patch() services.WalletPatch {
	return services.WalletPatch{
		Name:  sanitizePtr(r.Name),
		Type:  typed[core.WalletType](r.Type),
		Icon:  sanitizePtr(r.Icon),
		Color: sanitizePtr(r.Color),
	}
}

func (r transactionRequest) input() services.TransactionInput {
	return services.TransactionInput{
		Type:         core.TransactionType(strings.TrimSpace(r.Type)),
		Amount:       float64(r.Amount),
		FromWalletID: strings.TrimSpace(r.FromWalletID),
		ToWalletID:   strings.TrimSpace(r.ToWalletID),
		CategoryID:   strings.TrimSpace(r.CategoryID),
		Date:         r.Date.value(),
		Notes:        sanitizeInput(r.Notes),
	}
}

func (r transactionPatchRequest) patch() services.TransactionPatch {
	return services.TransactionPatch{
		Type:         typed[core.TransactionType](r.Type),
		Amount:       r.Amount.ptr(),
		FromWalletID: sanitizePtr(r.FromWalletID),
		ToWalletID:   sanitizePtr(r.ToWalletID),
		CategoryID:   sanitizePtr(r.CategoryID),
		Date:         r.Date.ptr(),
		Notes:        sanitizePtr(r.Notes),
	}
}

func (r budgetRequest) input() services.BudgetInput {
	return services.BudgetInput{
		CategoryID:   strings.TrimSpace(r.CategoryID),
		MonthlyLimit: r.MonthlyLimit,
		Month:        r.Month,
		Year:         r.Year,
	}
}

func (r budgetPatchRequest) patch() services.BudgetPatch {
	return services.BudgetPatch{
		CategoryID:   sanitizePtr(r.CategoryID),
		MonthlyLimit: r.MonthlyLimit,
		Month:        r.Month,
		Year:         r.Year,
	}
}

func (r savingsRequest) input() services.SavingsInput {
	return services.SavingsInput{
		Name:          sanitizeInput(r.Name),
		TargetAmount:  r.TargetAmount,
		MonthlyTarget: r.MonthlyTarget,
		Description:   sanitizeInput(r.Description),
		Icon:          sanitizeInput(r.Icon),
		Color:         sanitizeInput(r.Color),
		Status:        core.SavingsStatus(strings.TrimSpace(r.Status)),
	}
}

func (r savingsPatchRequest) patch() services.SavingsPatch {
	return services.SavingsPatch{
		Name:          sanitizePtr(r.Name),
		TargetAmount:  r.TargetAmount,
		MonthlyTarget: r.MonthlyTarget,
		Description:   sanitizePtr(r.Description),
		Icon:          sanitizePtr(r.Icon),
		Color:         sanitizePtr(r.Color),
		Status:        typed[core.SavingsStatus](r.Status),
	}
}

func (r savingsTransactionRequest) input() services.SavingsTransactionInput {
	return services.SavingsTransactionInput{
		Type:   core.SavingsTransactionType(strings.TrimSpace(r.Type)),
		Amount: float64(r.Amount),
		Notes:  sanitizeInput(r.Notes),
		Date:   r.Date.ptr(),
	}
}

func (r dueRequest) input() services.DueInput {
	return services.DueInput{
		Name:        sanitizeInput(r.Name),
		Amount:      float64(r.Amount),
		Date:        r.Date.value(),
		Status:      core.DueStatus(strings.TrimSpace(r.Status)),
		Description: sanitizeInput(r.Description),
	}
}

func (r duePatchRequest) patch() services.DuePatch {
	return services.DuePatch{
		Name:        sanitizePtr(r.Name),
		Amount:      r.Amount.ptr(),
		Date:        r.Date.ptr(),
		Description: sanitizePtr(r.Description),
		Status:      typed[core.DueStatus](r.Status),
	}
}

func (r dueTransactionRequest) input() services.DueTransactionInput {
	return services.DueTransactionInput{
		Type:        core.DueTransactionType(strings.TrimSpace(r.Type)),
		Amount:      float64(r.Amount),
		Description: sanitizeInput(r.Description),
		Date:        r.Date.ptr(),
	}
}

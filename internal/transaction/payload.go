package transaction

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nixfunds/finance-api/internal/apperror"
)

const (
	MsgDescriptionRequired = "Description is required"
	MsgAmountNumeric       = "Amount must be a number"
	MsgCategoryRequired    = "Category is required"
	MsgTypeInvalid         = "Type must be income or expense"
)

// Payload is the request body for create and update. Amount accepts either a
// JSON number or a numeric string. Ownership fields sent by clients are not
// part of the payload and are dropped on decode.
type Payload struct {
	Description string          `json:"description" validate:"required"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category" validate:"required"`
	Type        string          `json:"type" validate:"oneof=income expense"`
	Date        *time.Time      `json:"date,omitempty"`
}

var fieldMessages = map[string]string{
	"Description": MsgDescriptionRequired,
	"Category":    MsgCategoryRequired,
	"Type":        MsgTypeInvalid,
}

// Validator checks payloads. It wraps a validator.Validate, which caches
// struct metadata and is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Fields validates p and converts it into repository fields. Violations are
// reported together as a single Validation error.
func (val *Validator) Fields(p Payload) (Fields, error) {
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)

	var violations []string
	if err := val.v.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Fields{}, err
		}
		for _, fe := range verrs {
			if msg, ok := fieldMessages[fe.StructField()]; ok {
				violations = append(violations, msg)
			}
		}
	}

	amount, ok := val.parseAmount(p.Amount)
	if !ok {
		// keep the field order of the payload in the combined message
		violations = slices.Insert(violations, amountPosition(violations), MsgAmountNumeric)
	}

	if len(violations) > 0 {
		return Fields{}, apperror.NewValidation(violations...)
	}

	return Fields{
		Description: p.Description,
		Amount:      amount,
		Category:    p.Category,
		Type:        Type(p.Type),
		Date:        p.Date,
	}, nil
}

// parseAmount accepts a JSON number or a string holding a plain decimal.
func (val *Validator) parseAmount(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
		if val.v.Var(text, "required,numeric") != nil {
			return 0, false
		}
	}

	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, false
	}
	return amount, true
}

// amountPosition is where the amount message goes: after a description
// violation, before everything else.
func amountPosition(violations []string) int {
	if len(violations) > 0 && violations[0] == MsgDescriptionRequired {
		return 1
	}
	return 0
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-cli/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// createdAtLayout matches JavaScript's Date.prototype.toISOString (millisecond precision).
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

type wireItem struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// EncodeCollection serializes c in the blob wire format.
func EncodeCollection(c model.Collection) (string, error) {
	out := make([]wireItem, 0, len(c))
	for _, it := range c {
		out = append(out, wireItem{
			ID:        it.ID,
			Text:      it.Text,
			Completed: it.Completed,
			CreatedAt: it.CreatedAt.UTC().Format(createdAtLayout),
		})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeCollection parses the blob wire format. Any malformed record, blank text
// or duplicate id rejects the whole blob.
func DecodeCollection(s string) (model.Collection, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	var raw []wireItem
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(raw))
	out := make(model.Collection, 0, len(raw))
	for i, w := range raw {
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(w.CreatedAt))
		if err != nil {
			return nil, fmt.Errorf("record %d: createdAt: %w", i, err)
		}
		it := model.Item{
			ID:        w.ID,
			Text:      w.Text,
			Completed: w.Completed,
			CreatedAt: ts.UTC(),
		}
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, formatValidationError(err))
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %d", i, it.ID)
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "notblank":
			msgs = append(msgs, field+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

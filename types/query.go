package types

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nfeditor/nfe"
)

type Validater interface {
	Validate() map[string]string
}

// EditParams is the edit form: the document being edited plus the new
// values. Only the issuer name is editable for now.
type EditParams struct {
	XMLData    string `json:"xml_data" form:"xml_data" validate:"required"`
	IssuerName string `json:"issuer_name" form:"issuer_name" validate:"required,min=2,max=60"`
}

// SummaryParams carries a document for rendering when it is not uploaded
// as a file.
type SummaryParams struct {
	XMLData string `json:"xml_data" form:"xml_data" validate:"required"`
}

var validate = validator.New()

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *EditParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *SummaryParams) Validate() map[string]string {
	return validateStruct(params)
}

// Edits converts the form into the edit request applied by nfe.Mutate.
func (params *EditParams) Edits() nfe.Edits {
	name := params.IssuerName
	return nfe.Edits{IssuerName: &name}
}

func validateStruct(s any) map[string]string {
	if err := validate.Struct(s); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return map[string]string{"request": err.Error()}
		}
		fields := make(map[string]string)
		for _, e := range errs {
			fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return fields
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

type UploadResponse struct {
	ID       uuid.UUID    `json:"id"`
	XMLStr   string       `json:"xml_str"`
	Snapshot nfe.Snapshot `json:"snapshot"`
}

type EditResponse struct {
	ID       uuid.UUID `json:"id"`
	XMLData  string    `json:"xml_data"`
	XMLSaved bool      `json:"xml_saved"`
}

// EncodeDocument packs document text for transport between requests.
func EncodeDocument(text string) string {
	return base64.URLEncoding.EncodeToString([]byte(text))
}

// DecodeDocument accepts both the URL-safe and the standard base64
// alphabets. Query parsing may turn '+' into ' ', which is undone first.
func DecodeDocument(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return string(b), nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("invalid document encoding: %w", err)
	}
	return string(b), nil
}

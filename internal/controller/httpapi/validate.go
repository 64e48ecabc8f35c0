package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// имена полей в сообщениях как в JSON
	validate.RegisterTagNameFunc(jsonFieldName)
}

// bookSlotRequest тело POST /api/bookings
type bookSlotRequest struct {
	MemberID   string `json:"memberId" validate:"required"`
	MemberName string `json:"memberName" validate:"max=100"`
	Date       string `json:"date" validate:"required,len=10"`
}

// addCommentRequest тело POST /api/comments
type addCommentRequest struct {
	MemberID   string `json:"memberId" validate:"required"`
	MemberName string `json:"memberName" validate:"max=100"`
	Date       string `json:"date" validate:"required,len=10"`
	Comment    string `json:"comment" validate:"required,max=1000"`
}

// parseBody разбирает JSON и проверяет теги validate
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{msg: "Invalid request data", fields: []string{"body must be valid JSON"}}
	}
	return validateStruct(out)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &requestError{msg: "Invalid request data"}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			fields = append(fields, field+" is required")
		case "max":
			fields = append(fields, field+" must be at most "+param+" characters")
		case "len":
			fields = append(fields, field+" must be exactly "+param+" characters")
		default:
			fields = append(fields, field+" is invalid")
		}
	}

	return &requestError{msg: "Invalid request data", fields: fields}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

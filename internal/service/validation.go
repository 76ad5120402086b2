package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/escuela-api/internal/models"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// enumValidations are the enum tags used by request payloads.
var enumValidations = map[string]validator.Func{
	"attendance_status": func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToLower(fl.Field().String())).Valid()
	},
	"grade_period": func(fl validator.FieldLevel) bool {
		return models.Period(strings.ToLower(fl.Field().String())).Valid()
	},
	"topic_status": func(fl validator.FieldLevel) bool {
		return models.TopicStatus(strings.ToLower(fl.Field().String())).Valid()
	},
	"report_status": func(fl validator.FieldLevel) bool {
		return models.ReportStatus(strings.ToLower(fl.Field().String())).Valid()
	},
	"bulk_mode": func(fl validator.FieldLevel) bool {
		mode := models.BulkOperationMode(fl.Field().String())
		return mode == models.BulkModeAtomic || mode == models.BulkModePartialOnError
	},
}

// prepared holds one sync.Once per shared validator so its tags are installed a single time.
var prepared sync.Map

func registerValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range enumValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

// newValidator prepares v, or a fresh validator when v is nil. A registration failure is a
// programming error and panics.
func newValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		v = validator.New()
		mustRegister(v)
		return v
	}
	once, _ := prepared.LoadOrStore(v, new(sync.Once))
	once.(*sync.Once).Do(func() { mustRegister(v) })
	return v
}

func mustRegister(v *validator.Validate) {
	if err := registerValidations(v); err != nil {
		panic(err)
	}
}

// jsonFieldName reports fields under their payload names.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func invalid(err error, message string) error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErr
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return appErr.WithFields(fields)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// storeError keeps typed store errors (not found, conflict) and wraps backend failures.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalid(err, "dates must use YYYY-MM-DD")
	}
	return t, nil
}

// parseDateRange reads optional inclusive bounds; empty strings leave a bound open. An end
// before the start is an empty range, which the store filters match no rows for.
func parseDateRange(from, to string) (models.DateRange, error) {
	var r models.DateRange
	if from != "" {
		t, err := parseDate(from)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if to != "" {
		t, err := parseDate(to)
		if err != nil {
			return r, err
		}
		r.To = &t
	}
	return r, nil
}

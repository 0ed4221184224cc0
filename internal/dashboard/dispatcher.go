package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/view"
)

// DispatcherSpec configures one mutation flow.
type DispatcherSpec struct {
	// Success is shown on the surface after the mutation and reloads succeed.
	Success string
	// Reload lists the loaders re-run once each after a successful post.
	Reload []*Loader
	// Reset clears the originating form's values on success.
	Reset func()
}

// Dispatcher posts a validated payload to a mutation endpoint, interprets the
// envelope, and on success re-invokes the bound loaders. Invalid payloads are
// rejected locally without any network call. There is no retry and no guard
// against rapid duplicate submissions.
type Dispatcher struct {
	client   *api.Client
	surface  *view.MessageSurface
	validate *validator.Validate
	spec     DispatcherSpec
	logger   zerolog.Logger
}

// NewDispatcher constructs a mutation dispatcher.
func NewDispatcher(client *api.Client, surface *view.MessageSurface, validate *validator.Validate, spec DispatcherSpec, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		surface:  surface,
		validate: validate,
		spec:     spec,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Submit validates and posts the payload to the given path. It reports
// whether the mutation succeeded; either way the outcome is already on the
// message surface.
func (d *Dispatcher) Submit(ctx context.Context, path string, payload any) bool {
	d.surface.Clear()

	if payload != nil {
		if err := d.validate.Struct(payload); err != nil {
			d.surface.Set(validationMessage(err), false)
			return false
		}
	}

	if _, err := d.client.Post(ctx, path, payload); err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("mutation failed")
		d.surface.Set(err.Error(), false)
		return false
	}

	if d.spec.Reset != nil {
		d.spec.Reset()
	}

	d.surface.Set(d.spec.Success, true)

	for _, loader := range d.spec.Reload {
		loader.Load(ctx)
	}

	return true
}

// validationMessage flattens a validator error into the single human-readable
// string the message surface shows.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Sprintf("Please provide a valid %s.", strings.Join(fields, ", "))
	}
	return "Invalid input."
}

// intField parses a required numeric form field. An empty or non-numeric
// value writes a validation message and reports failure, so the caller
// returns before any network call happens.
func intField(surface *view.MessageSurface, name, value string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		surface.Set(fmt.Sprintf("Please enter a valid %s.", name), false)
		return 0, false
	}
	return n, true
}

// floatField parses a required numeric form field allowing decimals.
func floatField(surface *view.MessageSurface, name, value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		surface.Set(fmt.Sprintf("Please enter a valid %s.", name), false)
		return 0, false
	}
	return f, true
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/timeutil"
)

const (
	SettingBusinessOpen  = "BUSINESS_OPEN"
	SettingBusinessClose = "BUSINESS_CLOSE"

	defaultOpen  = timeutil.TimeOfDay(9 * 60)
	defaultClose = timeutil.TimeOfDay(17 * 60)
)

var ErrInvalidBusinessHours = errors.New("business hours open must be before close")

// HoursResolver produces the effective open/close window from the settings
// store. Missing or malformed keys fall back to 09:00-17:00 per key, so a
// partially configured store still yields a usable window.
type HoursResolver struct {
	settings SettingsStore
	logger   *zap.Logger
}

func NewHoursResolver(settings SettingsStore, logger *zap.Logger) *HoursResolver {
	return &HoursResolver{settings: settings, logger: logger}
}

func (r *HoursResolver) Resolve(ctx context.Context) (timeutil.Interval, error) {
	open := r.lookup(ctx, SettingBusinessOpen, defaultOpen)
	close := r.lookup(ctx, SettingBusinessClose, defaultClose)

	hours := timeutil.Interval{Start: open, End: close}
	if open >= close {
		return timeutil.Interval{}, fmt.Errorf("%w: resolved %s", ErrInvalidBusinessHours, hours)
	}

	return hours, nil
}

func (r *HoursResolver) lookup(ctx context.Context, key string, def timeutil.TimeOfDay) timeutil.TimeOfDay {
	raw, err := r.settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			r.logger.Warn("settings lookup failed, using default",
				zap.String("key", key), zap.Error(err))
		}
		return def
	}

	t, err := timeutil.ParseTimeOfDay(raw)
	if err != nil {
		r.logger.Warn("stored business hour is malformed, using default",
			zap.String("key", key), zap.String("value", raw))
		return def
	}

	return t
}

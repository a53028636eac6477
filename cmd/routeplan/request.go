package main

import (
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type windowFile struct {
	Earliest time.Time `koanf:"earliest"`
	Latest   time.Time `koanf:"latest"`
}

// requestFile is the on-disk form of a route request. JSON files are read
// by the same parser, since JSON is valid YAML.
type requestFile struct {
	Start        string   `koanf:"start" validate:"required"`
	Destinations []string `koanf:"destinations" validate:"required,min=1,dive,required"`
	Preferences  struct {
		VisitFirst string `koanf:"visitFirst"`
	} `koanf:"preferences"`
	Constraints map[string]windowFile `koanf:"constraints" validate:"omitempty,dive,keys,required,endkeys"`
	DepartAt    time.Time             `koanf:"departAt"`
	Strategy    string                `koanf:"strategy" validate:"omitempty,oneof=shortest-path visit-all"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func loadRequest(path string) (services.Request, error) {
	// Addresses are map keys and often contain dots.
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return services.Request{}, fmt.Errorf("load request %q: %w", path, err)
	}

	var rf requestFile
	if err := k.UnmarshalWithConf("", &rf, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &rf,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeHookFunc(time.RFC3339),
			),
		},
	}); err != nil {
		return services.Request{}, fmt.Errorf("load request %q: decode: %w", path, err)
	}

	if err := validate.Struct(&rf); err != nil {
		return services.Request{}, fmt.Errorf("load request %q: %w", path, err)
	}

	req := services.Request{
		Start:        strings.TrimSpace(rf.Start),
		Destinations: rf.Destinations,
		Preferences:  domain.Preferences{VisitFirst: rf.Preferences.VisitFirst},
		Constraints:  make(map[string]domain.TimeWindow, len(rf.Constraints)),
		DepartAt:     rf.DepartAt,
		Strategy:     domain.Strategy(rf.Strategy),
	}

	for addr, w := range rf.Constraints {
		var tw domain.TimeWindow
		if !w.Earliest.IsZero() {
			e := w.Earliest
			tw.Earliest = &e
		}
		if !w.Latest.IsZero() {
			l := w.Latest
			tw.Latest = &l
		}
		req.Constraints[addr] = tw
	}

	return req, nil
}

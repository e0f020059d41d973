package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var durationType = reflect.TypeOf(time.Duration(0))

// LoadEnv overrides config values with environment variables named by each
// field's `env` struct tag.
func LoadEnv(config *AppConfig) error {
	sections := []interface{}{
		&config.App,
		&config.Database,
		&config.Server,
		&config.JWT,
		&config.Logging,
		&config.CORS,
		&config.RateLimit,
		&config.Timeline,
		&config.Popover,
	}
	applied := 0
	for _, section := range sections {
		n, err := processStructEnv(section)
		if err != nil {
			return err
		}
		applied += n
	}

	log.Debug().
		Int("overrides", applied).
		Str("APP_ENV", os.Getenv("APP_ENV")).
		Msg("Environment variables loaded")
	return nil
}

// processStructEnv sets every tagged field of the struct s points to whose
// variable is present, and returns how many it set. Fields of unsupported
// kinds are left alone.
func processStructEnv(s interface{}) (int, error) {
	val := reflect.ValueOf(s).Elem()
	typ := val.Type()

	applied := 0
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		envName := field.Tag.Get("env")
		if envName == "" || !val.Field(i).CanSet() {
			continue
		}
		raw, ok := os.LookupEnv(envName)
		if !ok {
			continue
		}
		if err := setField(val.Field(i), raw); err != nil {
			return applied, fmt.Errorf("invalid value for %s: %w", envName, err)
		}
		applied++
	}
	return applied, nil
}

func setField(v reflect.Value, raw string) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return nil
		}
		var values []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		v.Set(reflect.ValueOf(values))
	}
	return nil
}

package astroenv

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv fills a struct from environment variables using `env` tags.
//
// Tag format:
//
//	`env:"ENV_KEY"`           → required, error if missing
//	`env:"ENV_KEY,default"`   → optional, default used if missing
//	`env:"ENV_KEY,"`          → optional, empty default
//
// The dotenv files are read first (".env" when none are given). A missing
// file is skipped; variables already set in the process win over the file.
// Supported kinds: string, int*, uint*, bool, float32/64, nested structs.
func LoadEnv(cfg interface{}, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := loadDotenv(files); err != nil {
		return err
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("LoadEnv: expected a pointer to a struct, got %T", cfg)
	}

	return parseStruct(v.Elem())
}

func loadDotenv(files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load dotenv %s: %w", f, err)
		}
	}
	return nil
}

// parseStruct walks every field, recursing into nested structs.
func parseStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		// ── Nested struct → recurse ──────────────────────────────────────────
		if field.Kind() == reflect.Struct {
			if err := parseStruct(field); err != nil {
				return err
			}
			continue
		}

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			continue
		}

		key, defaultVal, hasDefault := parseTag(tag)

		rawVal, err := resolveValue(key, defaultVal, hasDefault, fieldType.Name)
		if err != nil {
			return err
		}

		if err := setField(field, fieldType.Name, rawVal); err != nil {
			return err
		}
	}

	return nil
}

// parseTag splits "ENV_KEY,default_value" into its parts.
func parseTag(tag string) (key, defaultVal string, hasDefault bool) {
	parts := strings.SplitN(tag, ",", 2)
	key = strings.TrimSpace(parts[0])

	if len(parts) == 2 {
		return key, strings.TrimSpace(parts[1]), true
	}

	return key, "", false
}

// resolveValue: env var → default → error.
func resolveValue(key, defaultVal string, hasDefault bool, fieldName string) (string, error) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val, nil
	}

	if hasDefault {
		return defaultVal, nil
	}

	return "", fmt.Errorf("missing required env variable %q (for field %q)", key, fieldName)
}

// setField parses rawVal into the field's kind. An empty value leaves
// non-string fields at their zero value.
func setField(field reflect.Value, fieldName, rawVal string) error {
	if rawVal == "" && field.Kind() != reflect.String {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	switch field.Kind() {

	case reflect.String:
		field.SetString(rawVal)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(rawVal, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as int: %w", fieldName, rawVal, err)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(rawVal, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as uint: %w", fieldName, rawVal, err)
		}
		field.SetUint(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(rawVal)
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as bool (use true/false/1/0): %w", fieldName, rawVal, err)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(rawVal, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as float: %w", fieldName, rawVal, err)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("field %q: unsupported type %s", fieldName, field.Kind())
	}

	return nil
}

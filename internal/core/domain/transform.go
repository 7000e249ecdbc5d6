package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TransformListing приводит "сырое" объявление провайдера к канонической форме.
// Чистая функция: никакого I/O и разделяемого состояния.
func TransformListing(raw RawListing) (CanonicalProperty, error) {
	prop := CanonicalProperty{
		ExternalID:   coerceString(raw["id"]),
		PropertyType: coerceString(raw["propertyType"]),
		Address:      coerceString(raw["address"]),
		BerRating:    coerceString(raw["berRating"]),
		Description:  coerceString(raw["description"]),
		IsActive:     true,
	}

	price, err := coerceFloat(raw["price"])
	if err != nil {
		return CanonicalProperty{}, &TransformError{Field: "price", Cause: err}
	}
	prop.Price = price

	// Отсутствующие bedrooms/bathrooms превращаются в 0, а не в NULL.
	// Источник не различает "неизвестно" и "ноль" - сохраняем это поведение как есть.
	bedrooms, err := coerceInt(raw["bedrooms"])
	if err != nil {
		return CanonicalProperty{}, &TransformError{Field: "bedrooms", Cause: err}
	}
	prop.Bedrooms = bedrooms

	bathrooms, err := coerceInt(raw["bathrooms"])
	if err != nil {
		return CanonicalProperty{}, &TransformError{Field: "bathrooms", Cause: err}
	}
	prop.Bathrooms = bathrooms

	// Точка заполняется только когда обе координаты присутствуют.
	// Никаких нулевых точек-заглушек.
	lon, lonOK := raw["longitude"]
	lat, latOK := raw["latitude"]
	if lonOK && latOK && lon != nil && lat != nil {
		lonVal, err := coerceFloat(lon)
		if err != nil {
			return CanonicalProperty{}, &TransformError{Field: "longitude", Cause: err}
		}
		latVal, err := coerceFloat(lat)
		if err != nil {
			return CanonicalProperty{}, &TransformError{Field: "latitude", Cause: err}
		}
		prop.Location = &GeoPoint{Longitude: lonVal, Latitude: latVal}
	}

	return prop, nil
}

func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// coerceFloat приводит значение к float64. Отсутствующее значение - это 0,
// а не ошибка; ошибкой считается только значение, которое не является числом.
func coerceFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", val)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not a number", val, val)
	}
}

func coerceInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int(val), nil
	case int:
		return val, nil
	case json.Number:
		parsed, err := val.Int64()
		if err != nil {
			// Провайдер иногда присылает целые как "3.0"
			f, ferr := val.Float64()
			if ferr != nil {
				return 0, err
			}
			return int(f), nil
		}
		return int(parsed), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", val)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not an integer", val, val)
	}
}

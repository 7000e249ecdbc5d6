package domain

// validationRule - одно декларативное правило валидации.
// Новые правила добавляются в список, control flow не трогаем.
type validationRule struct {
	Field   string
	Message string
	Valid   func(p CanonicalProperty) bool
}

var validationRules = []validationRule{
	{
		Field:   "external_id",
		Message: "Missing required field: external_id",
		Valid:   func(p CanonicalProperty) bool { return p.ExternalID != "" },
	},
	{
		Field:   "price",
		Message: "Missing required field: price",
		// Нулевая цена неотличима от отсутствующей: трансформер
		// подставляет 0 вместо отсутствующего значения.
		Valid: func(p CanonicalProperty) bool { return p.Price != 0 },
	},
	{
		Field:   "address",
		Message: "Missing required field: address",
		Valid:   func(p CanonicalProperty) bool { return p.Address != "" },
	},
	{
		Field:   "price",
		Message: "Price must be a non-negative number",
		Valid:   func(p CanonicalProperty) bool { return p.Price >= 0 },
	},
	{
		Field:   "bedrooms",
		Message: "Invalid number of bedrooms",
		Valid:   func(p CanonicalProperty) bool { return p.Bedrooms >= 0 && p.Bedrooms <= 20 },
	},
}

// ValidateProperty прогоняет запись через все правила и возвращает список
// замечаний. Никогда не возвращает ошибку и не прерывается на первом
// нарушении - все правила независимы.
func ValidateProperty(p CanonicalProperty) []ValidationFinding {
	var findings []ValidationFinding
	for _, rule := range validationRules {
		if !rule.Valid(p) {
			findings = append(findings, ValidationFinding{
				Field:   rule.Field,
				Message: rule.Message,
			})
		}
	}
	return findings
}

package core

import "strings"

// Category is the closed set of expense categories.
type Category uint8

const (
	CategoryTravel Category = iota + 1
	CategoryMeals
	CategorySupplies
	CategoryEquipment
	CategoryUtilities
	CategoryRent
	CategoryInsurance
	CategorySalaries
	CategoryMaintenance
	CategoryMarketing
	CategoryOther
)

var categoryNames = map[Category]string{
	CategoryTravel:      "Travel",
	CategoryMeals:       "Meals & Dining",
	CategorySupplies:    "Office Supplies",
	CategoryEquipment:   "Equipment",
	CategoryUtilities:   "Utilities",
	CategoryRent:        "Rent",
	CategoryInsurance:   "Insurance",
	CategorySalaries:    "Salaries",
	CategoryMaintenance: "Maintenance",
	CategoryMarketing:   "Marketing",
	CategoryOther:       "Other",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := CategoryTravel; c <= CategoryOther; c++ {
		out = append(out, c)
	}
	return out
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory decodes a stored or user-supplied category name.
// Matching ignores case and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, &ValidationError{Err: ErrInvalidCategory, Value: s}
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, ErrInvalidCategory
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PaymentMethod is the closed set of ways an expense was paid.
type PaymentMethod uint8

const (
	PaymentCash PaymentMethod = iota + 1
	PaymentCreditCard
	PaymentDebitCard
	PaymentBankTransfer
	PaymentCheck
	PaymentOther
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentCash:         "Cash",
	PaymentCreditCard:   "Credit Card",
	PaymentDebitCard:    "Debit Card",
	PaymentBankTransfer: "Bank Transfer",
	PaymentCheck:        "Check",
	PaymentOther:        "Other",
}

// PaymentMethods lists every payment method in declaration order.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, 0, len(paymentMethodNames))
	for m := PaymentCash; m <= PaymentOther; m++ {
		out = append(out, m)
	}
	return out
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "Unknown"
}

func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethodNames[m]
	return ok
}

// ParsePaymentMethod decodes a stored or user-supplied payment method name.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for m, name := range paymentMethodNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return 0, &ValidationError{Err: ErrInvalidPaymentMethod, Value: s}
}

func (m PaymentMethod) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	return []byte(m.String()), nil
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

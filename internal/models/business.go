package models

import "strings"

// Field names a single fact collected about a business.
type Field string

const (
	FieldBusinessName          Field = "business_name"
	FieldRevenue               Field = "revenue"
	FieldExpenses              Field = "expenses"
	FieldProfit                Field = "profit"
	FieldAverageCheck          Field = "average_check"
	FieldClients               Field = "clients"
	FieldInvestments           Field = "investments"
	FieldMarketingCosts        Field = "marketing_costs"
	FieldEmployees             Field = "employees"
	FieldMonthlyCosts          Field = "monthly_costs"
	FieldNewClientsPerMonth    Field = "new_clients_per_month"
	FieldCustomerRetentionRate Field = "customer_retention_rate"
)

// RequiredFields are needed before any analysis, in the order they are asked for.
var RequiredFields = []Field{
	FieldBusinessName,
	FieldRevenue,
	FieldExpenses,
	FieldClients,
}

// OptionalFields improve the analysis but never block it.
var OptionalFields = []Field{
	FieldInvestments,
	FieldMarketingCosts,
	FieldEmployees,
	FieldNewClientsPerMonth,
	FieldCustomerRetentionRate,
}

// AllFields lists every field a profile can hold.
var AllFields = []Field{
	FieldBusinessName,
	FieldRevenue,
	FieldExpenses,
	FieldProfit,
	FieldAverageCheck,
	FieldClients,
	FieldInvestments,
	FieldMarketingCosts,
	FieldEmployees,
	FieldMonthlyCosts,
	FieldNewClientsPerMonth,
	FieldCustomerRetentionRate,
}

// IsNumeric reports whether the field carries a number.
func (f Field) IsNumeric() bool {
	return f != FieldBusinessName
}

// IsInteger reports whether the field carries a whole count.
func (f Field) IsInteger() bool {
	return f == FieldClients || f == FieldEmployees
}

// BusinessProfile is the accumulated set of facts about one business.
// A nil field is absent. A non-nil field holds a value that was actually reported.
type BusinessProfile struct {
	BusinessName          *string  `json:"business_name,omitempty" yaml:"business_name,omitempty"`
	Revenue               *float64 `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	Expenses              *float64 `json:"expenses,omitempty" yaml:"expenses,omitempty"`
	Profit                *float64 `json:"profit,omitempty" yaml:"profit,omitempty"`
	AverageCheck          *float64 `json:"average_check,omitempty" yaml:"average_check,omitempty"`
	Clients               *int     `json:"clients,omitempty" yaml:"clients,omitempty"`
	Investments           *float64 `json:"investments,omitempty" yaml:"investments,omitempty"`
	MarketingCosts        *float64 `json:"marketing_costs,omitempty" yaml:"marketing_costs,omitempty"`
	Employees             *int     `json:"employees,omitempty" yaml:"employees,omitempty"`
	MonthlyCosts          *float64 `json:"monthly_costs,omitempty" yaml:"monthly_costs,omitempty"`
	NewClientsPerMonth    *float64 `json:"new_clients_per_month,omitempty" yaml:"new_clients_per_month,omitempty"`
	CustomerRetentionRate *float64 `json:"customer_retention_rate,omitempty" yaml:"customer_retention_rate,omitempty"`
}

// Has reports whether the field is set.
func (p *BusinessProfile) Has(f Field) bool {
	if p == nil {
		return false
	}
	if f == FieldBusinessName {
		return p.BusinessName != nil
	}
	_, ok := p.Number(f)
	return ok
}

// Number returns a numeric field as float64. ok is false when the field is absent or not numeric.
func (p *BusinessProfile) Number(f Field) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch f {
	case FieldClients:
		if p.Clients == nil {
			return 0, false
		}
		return float64(*p.Clients), true
	case FieldEmployees:
		if p.Employees == nil {
			return 0, false
		}
		return float64(*p.Employees), true
	}
	ptr := p.floatPtr(f)
	if ptr == nil || *ptr == nil {
		return 0, false
	}
	return **ptr, true
}

// Meaningful reports whether the field holds a usable value: a non-blank name or a strictly positive number.
func (p *BusinessProfile) Meaningful(f Field) bool {
	if f == FieldBusinessName {
		return p.Name() != ""
	}
	v, ok := p.Number(f)
	return ok && v > 0
}

// MissingFrom returns the fields of set that are not meaningful, keeping their order.
func (p *BusinessProfile) MissingFrom(set []Field) []Field {
	var out []Field
	for _, f := range set {
		if !p.Meaningful(f) {
			out = append(out, f)
		}
	}
	return out
}

// Float returns a numeric field or 0 when absent.
func (p *BusinessProfile) Float(f Field) float64 {
	v, _ := p.Number(f)
	return v
}

// Name returns the trimmed business name or "".
func (p *BusinessProfile) Name() string {
	if p == nil || p.BusinessName == nil {
		return ""
	}
	return strings.TrimSpace(*p.BusinessName)
}

// SetNumber stores a numeric value. Integer fields are truncated.
func (p *BusinessProfile) SetNumber(f Field, v float64) {
	switch f {
	case FieldBusinessName:
		return
	case FieldClients:
		n := int(v)
		p.Clients = &n
		return
	case FieldEmployees:
		n := int(v)
		p.Employees = &n
		return
	}
	if ptr := p.floatPtr(f); ptr != nil {
		val := v
		*ptr = &val
	}
}

// SetName stores the business name.
func (p *BusinessProfile) SetName(name string) {
	p.BusinessName = &name
}

// Present lists the fields that are set, in AllFields order.
func (p *BusinessProfile) Present() []Field {
	out := make([]Field, 0, len(AllFields))
	for _, f := range AllFields {
		if p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Subset returns a copy holding only the given fields.
func (p *BusinessProfile) Subset(fields []Field) BusinessProfile {
	var out BusinessProfile
	for _, f := range fields {
		if !p.Has(f) {
			continue
		}
		if f == FieldBusinessName {
			out.SetName(*p.BusinessName)
			continue
		}
		out.SetNumber(f, p.Float(f))
	}
	return out
}

// Clone returns a deep copy.
func (p *BusinessProfile) Clone() BusinessProfile {
	if p == nil {
		return BusinessProfile{}
	}
	return p.Subset(AllFields)
}

// IsEmpty reports whether no field is set.
func (p *BusinessProfile) IsEmpty() bool {
	return len(p.Present()) == 0
}

func (p *BusinessProfile) floatPtr(f Field) **float64 {
	switch f {
	case FieldRevenue:
		return &p.Revenue
	case FieldExpenses:
		return &p.Expenses
	case FieldProfit:
		return &p.Profit
	case FieldAverageCheck:
		return &p.AverageCheck
	case FieldInvestments:
		return &p.Investments
	case FieldMarketingCosts:
		return &p.MarketingCosts
	case FieldMonthlyCosts:
		return &p.MonthlyCosts
	case FieldNewClientsPerMonth:
		return &p.NewClientsPerMonth
	case FieldCustomerRetentionRate:
		return &p.CustomerRetentionRate
	}
	return nil
}

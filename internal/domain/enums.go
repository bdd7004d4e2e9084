package domain

type QuotationStatus string

const (
	StatusPending         QuotationStatus = "pending"
	StatusProcessing      QuotationStatus = "processing"
	StatusDataCollection  QuotationStatus = "data_collection"
	StatusCostCalculation QuotationStatus = "cost_calculation"
	StatusCompleted       QuotationStatus = "completed"
	StatusFailed          QuotationStatus = "failed"
)

// Terminal reports whether no further transition is permitted out of s.
func (s QuotationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type ProjectType string

const (
	TypeResidential     ProjectType = "residential"
	TypeCommercial      ProjectType = "commercial"
	TypeRenovation      ProjectType = "renovation"
	TypeNewConstruction ProjectType = "new_construction"
)

// ValidProjectTypes is the canonical set of accepted project type strings.
var ValidProjectTypes = map[ProjectType]bool{
	TypeResidential:     true,
	TypeCommercial:      true,
	TypeRenovation:      true,
	TypeNewConstruction: true,
}

// Valid reports whether t is one of the accepted project types.
func (t ProjectType) Valid() bool {
	return ValidProjectTypes[t]
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

package costfunction

type EdgeAttributes interface {
	GetLength() float64
	EffectiveCost() float64
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
	Name() string
}

// AdjustedCost weights an edge by its custom_weight, falling back to base length for edges that were
// never penalized.
type AdjustedCost struct{}

func NewAdjustedCost() AdjustedCost {
	return AdjustedCost{}
}

func (AdjustedCost) GetWeight(e EdgeAttributes) float64 {
	return e.EffectiveCost()
}

func (AdjustedCost) Name() string {
	return "custom_weight"
}

// LengthCost weights an edge by its base length and ignores every penalty.
type LengthCost struct{}

func NewLengthCost() LengthCost {
	return LengthCost{}
}

func (LengthCost) GetWeight(e EdgeAttributes) float64 {
	return e.GetLength()
}

func (LengthCost) Name() string {
	return "length"
}

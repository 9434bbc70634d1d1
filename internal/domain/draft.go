package domain

const (
	MinQuantity = 1
	MaxQuantity = 10
)

// DraftStage tracks where a visitor is in the selection -> shipping -> finalize sequence.
type DraftStage string

const (
	StageSelecting DraftStage = "selecting"
	StageReady     DraftStage = "ready"
)

// CartDraft is the single-item purchase a visitor is assembling. It lives only in the session.
type CartDraft struct {
	ProductID       string     `json:"productId"`
	ProductName     string     `json:"productName"`
	UnitPriceCents  int64      `json:"unitPriceCents"`
	ImageRef        string     `json:"imageRef"`
	Quantity        int        `json:"quantity"`
	ShippingName    string     `json:"shippingName,omitempty"`
	ShippingAddress string     `json:"shippingAddress,omitempty"`
	ShippingPhone   string     `json:"shippingPhone,omitempty"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`
	Stage           DraftStage `json:"stage"`
}

// NewCartDraft starts a draft for p with quantity 1, capturing the price at selection time.
func NewCartDraft(p Product) CartDraft {
	return CartDraft{
		ProductID:      p.ID,
		ProductName:    p.Name,
		UnitPriceCents: p.UnitPriceCents,
		ImageRef:       p.ImageRef,
		Quantity:       MinQuantity,
		Stage:          StageSelecting,
	}
}

// ClampQuantity bounds qty to [MinQuantity, MaxQuantity].
func ClampQuantity(qty int) int {
	return max(MinQuantity, min(MaxQuantity, qty))
}

func (d CartDraft) SubtotalCents() int64 {
	return d.UnitPriceCents * int64(d.Quantity)
}

func (d CartDraft) Ready() bool {
	return d.Stage == StageReady
}

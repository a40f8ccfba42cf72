package domain

import "time"

type Property struct {
	ID                  string
	HostID              string
	Nickname            string
	Address             *string
	CoverPhotoURL       *string
	WelcomeMessage      *string
	WifiName            *string
	WifiPassword        *string
	CheckinInstructions *string
	HouseRules          *string
	ReviewURL           *string

	LateCheckoutEnabled bool
	LateCheckoutPrice   float64 // major currency units, two decimals
	EarlyCheckinEnabled bool
	EarlyCheckinPrice   float64

	TotalEarned       float64 // major currency units, credited on approval
	CheckoutCount     int
	EarlyCheckinCount int

	HostPushToken *string

	Recommendations []Recommendation
	Videos          []Video
}

type Recommendation struct {
	Name     string `json:"name"`
	Category string `json:"category"` // food|cafe|bar|attraction|shopping|transport
	Note     string `json:"note"`
}

type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PropertyView is what the guest page sees. Host-only fields (host id,
// push token, earnings, counters) never leave the server.
type PropertyView struct {
	ID                  string           `json:"id"`
	Nickname            string           `json:"nickname"`
	Address             *string          `json:"address,omitempty"`
	CoverPhotoURL       *string          `json:"coverPhotoUrl,omitempty"`
	WelcomeMessage      *string          `json:"welcomeMessage,omitempty"`
	WifiName            *string          `json:"wifiName,omitempty"`
	WifiPassword        *string          `json:"wifiPassword,omitempty"`
	CheckinInstructions *string          `json:"checkinInstructions,omitempty"`
	HouseRules          *string          `json:"houseRules,omitempty"`
	ReviewURL           *string          `json:"reviewUrl,omitempty"`
	LateCheckoutEnabled bool             `json:"lateCheckoutEnabled"`
	LateCheckoutPrice   float64          `json:"lateCheckoutPrice"`
	EarlyCheckinEnabled bool             `json:"earlyCheckinEnabled"`
	EarlyCheckinPrice   float64          `json:"earlyCheckinPrice"`
	Recommendations     []Recommendation `json:"recommendations,omitempty"`
	Videos              []Video          `json:"videos,omitempty"`
}

func (p Property) View() PropertyView {
	return PropertyView{
		ID:                  p.ID,
		Nickname:            p.Nickname,
		Address:             p.Address,
		CoverPhotoURL:       p.CoverPhotoURL,
		WelcomeMessage:      p.WelcomeMessage,
		WifiName:            p.WifiName,
		WifiPassword:        p.WifiPassword,
		CheckinInstructions: p.CheckinInstructions,
		HouseRules:          p.HouseRules,
		ReviewURL:           p.ReviewURL,
		LateCheckoutEnabled: p.LateCheckoutEnabled,
		LateCheckoutPrice:   p.LateCheckoutPrice,
		EarlyCheckinEnabled: p.EarlyCheckinEnabled,
		EarlyCheckinPrice:   p.EarlyCheckinPrice,
		Recommendations:     p.Recommendations,
		Videos:              p.Videos,
	}
}

type CheckoutAck struct {
	ID             string
	PropertyID     string
	GuestName      string
	AcknowledgedAt time.Time
}

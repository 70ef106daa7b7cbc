package domain

// Airport is one record of the remote airport list.
type Airport struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// AirportOption is the searchable form of an airport.
type AirportOption struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Country string `json:"country,omitempty"`
}

func (a Airport) Option() AirportOption {
	return AirportOption{
		Value:   a.IATACode,
		Label:   a.Name + " - " + a.City + ", " + a.Country,
		Country: a.Country,
	}
}

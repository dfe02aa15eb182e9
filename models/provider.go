package models

import "time"

// Provider is the service profile owned by a PROVIDER user.
type Provider struct {
	ID       string `bson:"id" json:"id"`
	UserID   string `bson:"userId" json:"userId"`
	Username string `bson:"username" json:"username"`

	ServiceName  string `bson:"serviceName" json:"serviceName"`
	Description  string `bson:"description" json:"description"`
	ProfileImage string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	PhoneNumber  string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode      string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`

	BusinessHours   string `bson:"businessHours,omitempty" json:"businessHours,omitempty"`
	Specializations string `bson:"specializations,omitempty" json:"specializations,omitempty"`
	Education       string `bson:"education,omitempty" json:"education,omitempty"`
	Certifications  string `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Experience      string `bson:"experience,omitempty" json:"experience,omitempty"`

	Website  string `bson:"website,omitempty" json:"website,omitempty"`
	Linkedin string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook string `bson:"facebook,omitempty" json:"facebook,omitempty"`

	ServicePricing    string `bson:"servicePricing,omitempty" json:"servicePricing,omitempty"`
	AcceptedInsurance string `bson:"acceptedInsurance,omitempty" json:"acceptedInsurance,omitempty"`
	Languages         string `bson:"languages,omitempty" json:"languages,omitempty"`

	ProfileCompleted bool      `bson:"profileCompleted" json:"profileCompleted"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`

	// Free slots, attached on read.
	Availabilities []Availability `bson:"-" json:"availabilities,omitempty"`
}

// ProviderProfileRequest holds the editable profile fields.
type ProviderProfileRequest struct {
	ServiceName       string `json:"serviceName" binding:"required,max=120"`
	Description       string `json:"description" binding:"max=2000"`
	ProfileImage      string `json:"profileImage" binding:"omitempty,url"`
	PhoneNumber       string `json:"phoneNumber"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zipCode"`
	Country           string `json:"country"`
	BusinessHours     string `json:"businessHours"`
	Specializations   string `json:"specializations"`
	Education         string `json:"education"`
	Certifications    string `json:"certifications"`
	Experience        string `json:"experience"`
	Website           string `json:"website"`
	Linkedin          string `json:"linkedin"`
	Twitter           string `json:"twitter"`
	Facebook          string `json:"facebook"`
	ServicePricing    string `json:"servicePricing"`
	AcceptedInsurance string `json:"acceptedInsurance"`
	Languages         string `json:"languages"`
}

// ApplyTo copies the editable fields onto p and recomputes completion.
func (r ProviderProfileRequest) ApplyTo(p *Provider) {
	p.ServiceName = r.ServiceName
	p.Description = r.Description
	p.ProfileImage = r.ProfileImage
	p.PhoneNumber = r.PhoneNumber
	p.Address = r.Address
	p.City = r.City
	p.State = r.State
	p.ZipCode = r.ZipCode
	p.Country = r.Country
	p.BusinessHours = r.BusinessHours
	p.Specializations = r.Specializations
	p.Education = r.Education
	p.Certifications = r.Certifications
	p.Experience = r.Experience
	p.Website = r.Website
	p.Linkedin = r.Linkedin
	p.Twitter = r.Twitter
	p.Facebook = r.Facebook
	p.ServicePricing = r.ServicePricing
	p.AcceptedInsurance = r.AcceptedInsurance
	p.Languages = r.Languages
	p.ProfileCompleted = p.IsComplete()
}

// IsComplete reports whether the profile has the fields clients need to book.
func (p *Provider) IsComplete() bool {
	return p.ServiceName != "" && p.Description != "" && p.PhoneNumber != "" && p.City != ""
}

// ProviderSearchField selects which attribute a provider search matches.
type ProviderSearchField string

const (
	SearchAll         ProviderSearchField = "all"
	SearchServiceName ProviderSearchField = "serviceName"
	SearchCity        ProviderSearchField = "city"
	SearchDescription ProviderSearchField = "description"
)

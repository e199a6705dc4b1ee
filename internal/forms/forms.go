// Package forms validates user input before it reaches the API. Rules
// mirror the backend's so that almost every rejection is caught locally,
// keeping round-trips for genuine conflicts (duplicate email, stale ids).
package forms

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// Errors maps field names to the first validation message for that field.
type Errors map[string]string

// For returns the message for field, or "" when the field is valid.
func (e Errors) For(field string) string { return e[field] }

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

var (
	pwLower   = regexp.MustCompile(`[a-z]`)
	pwUpper   = regexp.MustCompile(`[A-Z]`)
	pwDigit   = regexp.MustCompile(`[0-9]`)
	pwSpecial = regexp.MustCompile(`[@$!%*?&]`)
	pwCharset = regexp.MustCompile(`^[A-Za-z0-9@$!%*?&]+$`)
	digitsRE  = regexp.MustCompile(`^[0-9]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		return len(pw) >= 8 &&
			pwLower.MatchString(pw) &&
			pwUpper.MatchString(pw) &&
			pwDigit.MatchString(pw) &&
			pwSpecial.MatchString(pw) &&
			pwCharset.MatchString(pw)
	}))
	must(v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if !digitsRE.MatchString(id) {
			return false
		}
		return len(id) == 11 || len(id) == 14
	}))
	must(v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		d, err := time.ParseInLocation(domain.ExpirationDateLayout, fl.Field().String(), time.Local)
		if err != nil {
			return false
		}
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		return !d.Before(today)
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// messages maps "Field.tag" (or just the tag) to a user-facing line.
var messages = map[string]string{
	"required":            "This field is required",
	"email":               "Enter a valid email address",
	"strongpwd":           "Min 8 chars with upper, lower, digit and one of @$!%*?&",
	"taxid":               "Enter a CPF (11 digits) or CNPJ (14 digits), numbers only",
	"notpast":             "Date must be today or later (YYYY-MM-DD)",
	"eqfield":             "Passwords do not match",
	"Name.min":            "Name must be at least 3 characters",
	"Name.max":            "Name must be at most 100 characters",
	"TradeName.min":       "Trade name must be at least 3 characters",
	"TradeName.max":       "Trade name must be at most 100 characters",
	"PointsRequired.min":  "Points must be at least 1",
	"PointsRequired.max":  "Points must be at most 10000",
	"Quantity.min":        "Quantity must be at least 1",
	"Quantity.max":        "Quantity must be at most 1000",
	"Points.min":          "Points per invitation must be at least 1",
	"Points.max":          "Points per invitation must be at most 10000",
	"Minutes.min":         "Expiration must be at least 5 minutes",
	"Minutes.max":         "Expiration must be at most 10080 minutes (7 days)",
}

// fieldNames maps struct field names to the lowerCamel keys views use.
var fieldNames = map[string]string{
	"Email":           "email",
	"Password":        "password",
	"ConfirmPassword": "confirmPassword",
	"TradeName":       "tradeName",
	"TaxID":           "taxId",
	"Name":            "name",
	"PointsRequired":  "pointsRequired",
	"ExpirationDate":  "expirationDate",
	"Quantity":        "quantity",
	"Points":          "pointsPerInvitation",
	"Minutes":         "expirationMinutes",
}

func collect(err error) Errors {
	if err == nil {
		return Errors{}
	}
	out := Errors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		key := fieldNames[fe.StructField()]
		if key == "" {
			key = strings.ToLower(fe.StructField())
		}
		if _, seen := out[key]; seen {
			continue
		}
		msg := messages[fe.StructField()+"."+fe.Tag()]
		if msg == "" {
			msg = messages[fe.Tag()]
		}
		if msg == "" {
			msg = "Invalid value"
		}
		out[key] = msg
	}
	return out
}

// Login carries the sign-in inputs.
type Login struct {
	Email    string
	Password string
}

type loginFields struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate checks the login form. Password strength is not enforced here;
// existing accounts may predate the current policy.
func (f Login) Validate() Errors {
	return collect(validate.Struct(loginFields{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}))
}

// Request builds the API payload. Call only after Validate passes.
func (f Login) Request() client.LoginRequest {
	return client.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// Register carries the new-store inputs.
type Register struct {
	TradeName       string
	TaxID           string
	Email           string
	Password        string
	ConfirmPassword string
}

type registerFields struct {
	TradeName       string `validate:"required,min=3,max=100"`
	TaxID           string `validate:"required,taxid"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,strongpwd"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func (f Register) Validate() Errors {
	return collect(validate.Struct(registerFields{
		TradeName:       strings.TrimSpace(f.TradeName),
		TaxID:           strings.TrimSpace(f.TaxID),
		Email:           strings.TrimSpace(f.Email),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}))
}

func (f Register) Request() client.RegisterRequest {
	taxID := strings.TrimSpace(f.TaxID)
	return client.RegisterRequest{
		TradeName: strings.TrimSpace(f.TradeName),
		TaxID:     taxID,
		TaxIDType: domain.TaxIDTypeFor(taxID),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
	}
}

// Campaign carries the create/edit campaign inputs as typed by the user.
type Campaign struct {
	Name           string
	PointsRequired string
	ExpirationDate string
}

type campaignFields struct {
	Name           string `validate:"required,min=3,max=100"`
	PointsRequired int    `validate:"min=1,max=10000"`
	ExpirationDate string `validate:"required,notpast"`
}

func (f Campaign) Validate() Errors {
	points, err := strconv.Atoi(strings.TrimSpace(f.PointsRequired))
	if err != nil {
		e := collect(validate.StructExcept(campaignFields{
			Name:           strings.TrimSpace(f.Name),
			PointsRequired: 1,
			ExpirationDate: strings.TrimSpace(f.ExpirationDate),
		}, "PointsRequired"))
		e["pointsRequired"] = "Enter a whole number"
		return e
	}
	return collect(validate.Struct(campaignFields{
		Name:           strings.TrimSpace(f.Name),
		PointsRequired: points,
		ExpirationDate: strings.TrimSpace(f.ExpirationDate),
	}))
}

// Points returns the parsed points value. Call only after Validate passes.
func (f Campaign) Points() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.PointsRequired)) //nolint:errcheck // validated upstream
	return n
}

func (f Campaign) CreateRequest() client.CreateCampaignRequest {
	return client.CreateCampaignRequest{
		Name:           strings.TrimSpace(f.Name),
		PointsRequired: f.Points(),
		ExpirationDate: strings.TrimSpace(f.ExpirationDate),
	}
}

func (f Campaign) UpdateRequest(isActive bool) client.UpdateCampaignRequest {
	return client.UpdateCampaignRequest{
		Name:           strings.TrimSpace(f.Name),
		PointsRequired: f.Points(),
		ExpirationDate: strings.TrimSpace(f.ExpirationDate),
		IsActive:       isActive,
	}
}

// Invitations carries the batch-generation inputs.
type Invitations struct {
	Quantity string
	Points   string
	Minutes  string
}

type invitationFields struct {
	Quantity int `validate:"min=1,max=1000"`
	Points   int `validate:"min=1,max=10000"`
	Minutes  int `validate:"min=5,max=10080"`
}

func (f Invitations) Validate() Errors {
	e := Errors{}
	fields := invitationFields{}
	var perr bool
	if n, err := strconv.Atoi(strings.TrimSpace(f.Quantity)); err == nil {
		fields.Quantity = n
	} else {
		e["quantity"] = "Enter a whole number"
		perr = true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.Points)); err == nil {
		fields.Points = n
	} else {
		e["pointsPerInvitation"] = "Enter a whole number"
		perr = true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.Minutes)); err == nil {
		fields.Minutes = n
	} else {
		e["expirationMinutes"] = "Enter a whole number"
		perr = true
	}
	if perr {
		return e
	}
	return collect(validate.Struct(fields))
}

// Request builds the batch payload for campaignID. Call after Validate.
func (f Invitations) Request(campaignID int64) client.GenerateInvitationsRequest {
	q, _ := strconv.Atoi(strings.TrimSpace(f.Quantity)) //nolint:errcheck // validated upstream
	p, _ := strconv.Atoi(strings.TrimSpace(f.Points))   //nolint:errcheck // validated upstream
	m, _ := strconv.Atoi(strings.TrimSpace(f.Minutes))  //nolint:errcheck // validated upstream
	return client.GenerateInvitationsRequest{
		CampaignID:          campaignID,
		Quantity:            q,
		PointsPerInvitation: p,
		ExpirationMinutes:   m,
	}
}

// DeleteAccount carries the deletion confirmation inputs. The password is
// re-entered twice so a typo cannot schedule a deletion.
type DeleteAccount struct {
	Password        string
	ConfirmPassword string
}

type deleteAccountFields struct {
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func (f DeleteAccount) Validate() Errors {
	return collect(validate.Struct(deleteAccountFields(f)))
}

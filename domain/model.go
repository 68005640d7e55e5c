package domain

import (
	"encoding/json"
	"io"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoJSON point, coordinates are [longitude, latitude]
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

type UserRole string

const (
	RoleUser    = "user"
	RoleShelter = "shelter"
	RoleAdmin   = "admin"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Username    string             `bson:"username" json:"username" validate:"required"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	Password    string             `bson:"password" json:"password,omitempty"`
	Role        UserRole           `bson:"role" json:"role"`
	Verified    bool               `bson:"verified" json:"verified"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	PostalCode  string             `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	CountryCode string             `bson:"countryCode,omitempty" json:"countryCode,omitempty"`
	Preferences *Preferences       `bson:"preferences,omitempty" json:"preferences,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Adoption preferences embedded in the user document. Every field is
// optional; a nil field means "no preference" and must not influence scoring.
type Preferences struct {
	Radius          *float64 `bson:"radius,omitempty" json:"radius,omitempty"`
	SheltersOnly    *bool    `bson:"sheltersOnly,omitempty" json:"sheltersOnly,omitempty"`
	AgeRange        []string `bson:"ageRange,omitempty" json:"ageRange,omitempty"`
	Gender          *string  `bson:"gender,omitempty" json:"gender,omitempty"`
	Castrated       *bool    `bson:"castrated,omitempty" json:"castrated,omitempty"`
	Colour          []string `bson:"colour,omitempty" json:"colour,omitempty"`
	AllergyFriendly *bool    `bson:"allergyFriendly,omitempty" json:"allergyFriendly,omitempty"`
	FeeMin          *float64 `bson:"feeMin,omitempty" json:"feeMin,omitempty"`
	FeeMax          *float64 `bson:"feeMax,omitempty" json:"feeMax,omitempty"`
	HealthStatus    *string  `bson:"healthStatus,omitempty" json:"healthStatus,omitempty"`
}

type CatStatus string

const (
	CatDraft     = "draft"
	CatPublished = "published"
)

type Cat struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Sex             string             `bson:"sex" json:"sex" validate:"required,oneof=m f"`
	AgeYears        float64            `bson:"ageYears" json:"ageYears"`
	Color           string             `bson:"color" json:"color"`
	Breed           string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	HealthStatus    string             `bson:"healthStatus,omitempty" json:"healthStatus,omitempty"`
	Vaccinated      bool               `bson:"vaccinated" json:"vaccinated"`
	Sterilized      bool               `bson:"sterilized" json:"sterilized"`
	AllergyFriendly bool               `bson:"allergyFriendly" json:"allergyFriendly"`
	Shelter         bool               `bson:"shelter" json:"shelter"`
	AdoptionFee     float64            `bson:"adoptionFee" json:"adoptionFee"`
	SellerID        primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	SellerName      string             `bson:"-" json:"sellerName,omitempty"`
	SellerAvatar    string             `bson:"-" json:"sellerAvatar,omitempty"`
	Location        *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	PostalCode      string             `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	CountryCode     string             `bson:"countryCode,omitempty" json:"countryCode,omitempty"`
	Status          CatStatus          `bson:"status" json:"status"`
	DistanceKm      int                `bson:"-" json:"distanceKm"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type ChatStatus string

const (
	ChatOpen      = "open"
	ChatCompleted = "completed"
	ChatArchived  = "archived"
	ChatCancelled = "cancelled"
)

type Message struct {
	SenderID primitive.ObjectID `bson:"senderId" json:"senderId"`
	Text     string             `bson:"text" json:"text"`
	SentAt   time.Time          `bson:"sentAt" json:"sentAt"`
}

type Chat struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	CatID        primitive.ObjectID   `bson:"catId" json:"catId"`
	Messages     []Message            `bson:"messages" json:"messages"`
	Status       ChatStatus           `bson:"status" json:"status"`
	Snapshot     bool                 `bson:"snapshot" json:"snapshot"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ForumPost struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Body      string             `bson:"body" json:"body" validate:"required"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Meetup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	OrganizerID primitive.ObjectID `bson:"organizerId" json:"organizerId"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location" json:"location"`
	Date        time.Time          `bson:"date" json:"date"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type SubscriptionPlan struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	PriceCents    int64              `bson:"priceCents" json:"priceCents"`
	PeriodMonths  int                `bson:"periodMonths" json:"periodMonths"`
	StripePriceID string             `bson:"stripePriceId" json:"stripePriceId"`
}

type SubscriptionStatus string

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionPastDue   = "past_due"
	SubscriptionExpired   = "expired"
)

type UserSubscription struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	UserID               primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID               primitive.ObjectID `bson:"planId" json:"planId"`
	Status               SubscriptionStatus `bson:"status" json:"status"`
	StartedAt            time.Time          `bson:"startedAt" json:"startedAt"`
	EndsAt               time.Time          `bson:"endsAt" json:"endsAt"`
	StripeSubscriptionID string             `bson:"stripeSubscriptionId,omitempty" json:"stripeSubscriptionId,omitempty"`
}

type Rating struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	RaterID   primitive.ObjectID `bson:"raterId" json:"raterId"`
	SellerID  primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Stars     int                `bson:"stars" json:"stars" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ReportStatus string

const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
)

type Report struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ReporterID primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	TargetKind string             `bson:"targetKind" json:"targetKind" validate:"required,oneof=user cat forumPost"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	Reason     string             `bson:"reason" json:"reason" validate:"required"`
	Status     ReportStatus       `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type AdoptionStatus string

const (
	AdoptionOpenStatus      = "open"
	AdoptionCompletedStatus = "completed"
)

type Adoption struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CatID     primitive.ObjectID `bson:"catId" json:"catId"`
	Cat       *Cat               `bson:"cat,omitempty" json:"cat,omitempty"`
	SellerID  primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	AdopterID primitive.ObjectID `bson:"adopterId" json:"adopterId"`
	Status    AdoptionStatus     `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type PaymentRecord struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	AdoptionID primitive.ObjectID `bson:"adoptionId" json:"adoptionId"`
	PayerID    primitive.ObjectID `bson:"payerId" json:"payerId"`
	Amount     float64            `bson:"amount" json:"amount"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterValidation struct {
	UserToken string `json:"user_token"`
	MailToken string `json:"mail_token"`
}

type ResendVerificationRequest struct {
	UserToken string `json:"user_token"`
	UserMail  string `json:"user_mail"`
}

type RecoverPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
	RepeatedNew string `json:"repeated_new"`
}

type PasswordChange struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type Claims struct {
	UserID    primitive.ObjectID `json:"user_id"`
	Username  string             `json:"username"`
	Role      UserRole           `json:"role"`
	ExpiresAt time.Time          `json:"expires_at"`
}

func (user *User) ValidateUser() error {
	validate := validator.New()

	err := validate.RegisterValidation("onlyCharAndNum", onlyCharactersAndNumbersField)
	if err != nil {
		return err
	}

	return validate.Struct(user)
}

func (cat *Cat) ValidateCat() error {
	validate := validator.New()
	return validate.Struct(cat)
}

func (rating *Rating) ValidateRating() error {
	validate := validator.New()
	return validate.Struct(rating)
}

func (report *Report) ValidateReport() error {
	validate := validator.New()
	return validate.Struct(report)
}

// Allows only letters [a-z] and numbers [0-9]
func onlyCharactersAndNumbersField(fl validator.FieldLevel) bool {
	re := regexp.MustCompile("[-_a-zA-Z0-9]*")
	matches := re.FindAllString(fl.Field().String(), -1)

	if len(matches) != 1 {
		return false
	}

	return true
}

func (user *User) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(user)
}

func (cat *Cat) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(cat)
}

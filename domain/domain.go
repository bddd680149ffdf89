package domain

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gobuffalo/envy"
	mwi18n "github.com/gobuffalo/mw-i18n/v2"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

var AuthCallbackURL string

// T is the Buffalo i18n translator
var T *mwi18n.Translator

var AllowedFileUploadTypes = []string{
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

// Context keys
const (
	ContextKeyCurrentUser = "current_user"
	ContextKeyExtras      = "extras"
	ContextKeyTx          = "tx"

	DefaultUIPath = "/tnm"

	EventPayloadID = "id"

	TypeProject   = "projects"
	TypeTNMTicket = "tnms"
	TypeUser      = "users"
	TypeSetting   = "settings"
	TypeAsset     = "assets"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	DateFormat    = "2006-01-02"
	LocalizedDate = "2 January 2006"

	MaxFileSize = 1024 * 1024 * 10 // 10 Megabytes

	DurationDay  = time.Duration(time.Hour * 24)
	DurationWeek = time.Duration(DurationDay * 7)
)

// Event Kinds
const (
	EventApiUserCreated = "api:user:created"

	EventApiTicketSubmitted       = "api:tnm:submitted"
	EventApiTicketSent            = "api:tnm:sent"
	EventApiTicketReminder        = "api:tnm:reminder"
	EventApiTicketViewed          = "api:tnm:viewed"
	EventApiTicketResponded       = "api:tnm:responded"
	EventApiTicketManualOverride  = "api:tnm:manual-override"
	EventApiTicketMarkedPaid      = "api:tnm:marked-paid"
	EventApiEmailQueued           = "api:email:queued"
	EventApiApprovalTokenCreated  = "api:approval-token:created"
)

// redirect url for after logout
var LogoutRedirectURL = "missing.ui.url/logged-out"

// Env Holds the values of environment variables
var Env struct {
	GoEnv                      string `ignored:"true"`
	ApiBaseURL                 string `required:"true" split_words:"true"`
	AccessTokenLifetimeSeconds int    `default:"1166400" split_words:"true"` // 13.5 days
	AppName                    string `default:"ChangeOrderino" split_words:"true"`
	CompanyName                string `default:"TRE Construction" split_words:"true"`
	ServerPort                 int    `default:"3000" split_words:"true"`

	ListenerDelayMilliseconds int `default:"1000" split_words:"true"`
	ListenerMaxRetries        int `default:"10" split_words:"true"`

	SessionSecret string `required:"true" split_words:"true"`
	UIURL         string `default:"http://missing.ui.url"`

	KeycloakIssuerURL    string `default:"" split_words:"true"`
	KeycloakClientID     string `default:"" split_words:"true"`
	KeycloakClientSecret string `default:"" split_words:"true"`

	AwsRegion           string `split_words:"true"`
	AwsS3Endpoint       string `split_words:"true"`
	AwsS3DisableSSL     bool   `split_words:"true"`
	AwsS3Bucket         string `split_words:"true"`
	AwsS3ACL            string `default:"private" envconfig:"AWS_S3_ACL"`
	AwsS3URLLifeMinutes int    `default:"10" envconfig:"AWS_S3_URL_LIFE_MINUTES"`
	AwsAccessKeyID      string `split_words:"true"`
	AwsSecretAccessKey  string `split_words:"true"`

	EmailFromAddress string `required:"true" split_words:"true"`
	EmailService     string `default:"ses" split_words:"true"`
	SupportEmail     string `default:"" split_words:"true"`

	RedisURL       string `default:"redis://localhost:6379/0" split_words:"true"`
	EmailQueueName string `default:"changeorderino:email" split_words:"true"`

	ApprovalTokenLifetimeDays int `default:"30" split_words:"true"`

	ReminderFrequencyDays int `default:"3" split_words:"true"`
	MaxReminders          int `default:"5" split_words:"true"`

	// Fallback OH&P percents, used when neither the ticket, the project,
	// nor the stored settings provide a value
	DefaultOHPLaborString         string `default:"15" envconfig:"DEFAULT_OHP_LABOR"`
	DefaultOHPMaterialString      string `default:"15" envconfig:"DEFAULT_OHP_MATERIAL"`
	DefaultOHPEquipmentString     string `default:"15" envconfig:"DEFAULT_OHP_EQUIPMENT"`
	DefaultOHPSubcontractorString string `default:"5" envconfig:"DEFAULT_OHP_SUBCONTRACTOR"`

	DefaultOHPLabor         decimal.Decimal `ignored:"true"`
	DefaultOHPMaterial      decimal.Decimal `ignored:"true"`
	DefaultOHPEquipment     decimal.Decimal `ignored:"true"`
	DefaultOHPSubcontractor decimal.Decimal `ignored:"true"`
}

func init() {
	readEnv()
	AuthCallbackURL = Env.ApiBaseURL + "/auth/callback"
	LogoutRedirectURL = Env.UIURL + "/logged-out"
}

// readEnv loads environment data into `Env`
func readEnv() {
	err := envconfig.Process("", &Env)
	if err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	Env.DefaultOHPLabor = mustDecimal(Env.DefaultOHPLaborString)
	Env.DefaultOHPMaterial = mustDecimal(Env.DefaultOHPMaterialString)
	Env.DefaultOHPEquipment = mustDecimal(Env.DefaultOHPEquipmentString)
	Env.DefaultOHPSubcontractor = mustDecimal(Env.DefaultOHPSubcontractorString)

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", EnvDevelopment)
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid decimal value %q in env: %w", s, err))
	}
	return d
}

func IsProduction() bool {
	return Env.GoEnv == EnvProduction
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it
// as a uuid.UUID. Errors are ignored.
func GetUUID() uuid.UUID {
	id, _ := uuid.NewV4()
	return id
}

// EmailFromAddress combines a name with the configured from address for use in an email From header. If name is nil,
// only the App Name will be used.
func EmailFromAddress(name *string) string {
	addr := Env.AppName + " <" + Env.EmailFromAddress + ">"
	if name != nil {
		addr = *name + " via " + addr
	}
	return addr
}

// GetBearerTokenFromRequest obtains the token from an Authorization header beginning
// with "Bearer". If not found, an empty string is returned.
func GetBearerTokenFromRequest(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	re := regexp.MustCompile(`^(?i)Bearer (.*)$`)
	matches := re.FindSubmatch([]byte(authorizationHeader))
	if len(matches) < 2 {
		return ""
	}

	return string(matches[1])
}

// IsOtherThanNoRows returns false if the error is nil or is just reporting that there
// were no rows in the result set for a sql query.
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

func MergeExtras(extras []map[string]any) map[string]any {
	allExtras := map[string]any{}

	if len(extras) == 1 {
		return extras[0]
	}

	for _, e := range extras {
		for k, v := range e {
			allExtras[k] = v
		}
	}

	return allExtras
}

// IsStringInSlice iterates over a slice of strings, looking for the given
// string. If found, true is returned. Otherwise, false is returned.
func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

func RandomString(n int, includeLetters string) string {
	if includeLetters == "" {
		includeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	}
	letters := []rune(includeLetters)
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))] // #nosec G404
	}
	return string(b)
}

// RandomInsecureIntInRange is insecure because it only uses the math.rand package
// and not the crypto/rand package
func RandomInsecureIntInRange(min, max int) int {
	if min >= max {
		panic("invalid parameters to RandomInsecureIntInRange: max of range must be greater than min.")
	}
	return rand.Intn(max-min+1) + min // #nosec G404
}

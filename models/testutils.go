// +build development

// This build tag ensures that this file will not be included unless
//  the `development` tag is explicitly requested (which should be never)

package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/pop/v6"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/storage"
)

type FixturesConfig struct {
	NumberOfProjects  int
	TicketsPerProject int
	ItemsPerTicket    int
}

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Assets
	ApprovalTokens
	Projects
	TNMTickets
	UserAccessTokens
	Users
}

// TestBuffaloContext is a buffalo context user in tests
type TestBuffaloContext struct {
	buffalo.DefaultContext
	params map[interface{}]interface{}
}

// Value returns the value associated with the given key in the test context
func (b *TestBuffaloContext) Value(key interface{}) interface{} {
	return b.params[key]
}

// Set sets the value to be associated with the given key in the test context
func (b *TestBuffaloContext) Set(key string, val interface{}) {
	b.params[key] = val
}

// CreateTestContext sets the domain.ContextKeyCurrentUser to the user param in the TestBuffaloContext
func CreateTestContext(user User) buffalo.Context {
	ctx := &TestBuffaloContext{
		params: map[interface{}]interface{}{},
	}
	ctx.Set(domain.ContextKeyCurrentUser, user)
	return ctx
}

// CreateUserFixtures generates any number of user records for testing. The access token for
// each user is the same as the user's Email. All users get the foreman role.
func CreateUserFixtures(tx *pop.Connection, n int) Fixtures {
	unique := domain.GetUUID().String()

	users := make(Users, n)
	accessTokenFixtures := make(UserAccessTokens, n)
	for i := range users {
		users[i].Email = fmt.Sprintf("user%d_%s@example.com", i, unique)
		iStr := strconv.Itoa(i)
		users[i].FirstName = "first" + iStr
		users[i].LastName = "last" + iStr
		users[i].LastLoginUTC = time.Now()
		users[i].SubjectID = randStr(16)
		users[i].Roles = []string{RoleForeman}
		MustCreate(tx, &users[i])

		accessTokenFixtures[i].UserID = users[i].ID
		accessTokenFixtures[i].TokenHash = HashAccessToken(users[i].Email)
		accessTokenFixtures[i].ExpiresAt = time.Now().UTC().Add(time.Minute * 60)
		MustCreate(tx, &accessTokenFixtures[i])
	}

	return Fixtures{
		Users:            users,
		UserAccessTokens: accessTokenFixtures,
	}
}

// CreateAdminUserFixture makes one user holding the admin role
func CreateAdminUserFixture(tx *pop.Connection) User {
	admin := CreateUserFixtures(tx, 1).Users[0]
	admin.Roles = []string{RoleAdmin}
	if err := admin.Update(tx); err != nil {
		panic("failed to promote fixture user to admin, " + err.Error())
	}
	return admin
}

// CreateProjectFixtures generates any number of project records for testing
func CreateProjectFixtures(tx *pop.Connection, n int) Fixtures {
	projects := make(Projects, n)
	for i := range projects {
		projects[i].Name = "Project " + randStr(8)
		projects[i].ProjectNumber = fmt.Sprintf("%d", 2400+rand.Intn(100)*100+i)
		projects[i].GCName = "GC " + randStr(6)
		projects[i].GCEmail = fmt.Sprintf("gc%d_%s@example.com", i, randStr(6))
		projects[i].RemindersEnabled = true
		projects[i].ReminderFrequencyDays = 3
		projects[i].MaxReminders = 5
		projects[i].IsActive = true
		MustCreate(tx, &projects[i])
	}

	return Fixtures{
		Projects: projects,
	}
}

// CreateTicketFixtures generates projects with tickets and line items.
// Each ticket gets one line item of every category with known amounts:
// labor 10h x $75, material 5 x $12.50, equipment 2 x $100, sub $250.
func CreateTicketFixtures(tx *pop.Connection, config FixturesConfig) Fixtures {
	users := CreateUserFixtures(tx, 1)
	fixtures := CreateProjectFixtures(tx, config.NumberOfProjects)
	fixtures.Users = users.Users
	fixtures.UserAccessTokens = users.UserAccessTokens

	creator := users.Users[0]

	tickets := make(TNMTickets, 0, config.NumberOfProjects*config.TicketsPerProject)
	for i := range fixtures.Projects {
		for j := 0; j < config.TicketsPerProject; j++ {
			ticket := createTicketFixture(tx, fixtures.Projects[i], creator, config.ItemsPerTicket)
			tickets = append(tickets, ticket)
		}
	}

	fixtures.TNMTickets = tickets
	return fixtures
}

func createTicketFixture(tx *pop.Connection, project Project, creator User, itemSets int) TNMTicket {
	ticket := TNMTicket{
		ProjectID:   project.ID,
		Title:       "Extra work " + randStr(8),
		Description: randStr(30),
		CreatedByID: creator.ID,
	}
	if err := ticket.Create(tx); err != nil {
		panic(fmt.Sprintf("error creating ticket fixture, %s", err))
	}

	for i := 0; i < itemSets; i++ {
		labor := LaborItem{
			TicketID:    ticket.ID,
			Description: "carpentry " + randStr(6),
			LaborType:   api.LaborTypeCarpenter,
			Hours:       decimal.NewFromInt(10),
			RatePerHour: decimal.NewFromInt(75),
		}
		MustCreate(tx, &labor)

		material := MaterialItem{
			TicketID:    ticket.ID,
			Description: "lumber " + randStr(6),
			Quantity:    decimal.NewFromInt(5),
			UnitPrice:   decimal.RequireFromString("12.50"),
		}
		MustCreate(tx, &material)

		equipment := EquipmentItem{
			TicketID:    ticket.ID,
			Description: "lift rental " + randStr(6),
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(100),
		}
		MustCreate(tx, &equipment)

		sub := SubcontractorItem{
			TicketID:    ticket.ID,
			CompanyName: "Sub " + randStr(6),
			Description: randStr(12),
			Amount:      decimal.NewFromInt(250),
		}
		MustCreate(tx, &sub)
	}

	if err := ticket.RecalculateTotals(tx); err != nil {
		panic(fmt.Sprintf("error pricing ticket fixture, %s", err))
	}
	return ticket
}

// CreateAssetFixtures generates any number of asset records for testing
func CreateAssetFixtures(tx *pop.Connection, n int) Fixtures {
	_ = storage.CreateS3Bucket()
	assets := make(Assets, n)
	for i := range assets {
		a := Asset{
			Content:   []byte("GIF87a"),
			Filename:  fmt.Sprintf("asset_%d.gif", i),
			AssetType: api.AssetTypePhoto,
		}
		if err := a.Store(tx); err != nil {
			panic(fmt.Sprintf("failed to create asset fixture, %s", err))
		}
		assets[i] = a
	}

	return Fixtures{
		Assets: assets,
	}
}

// MustCreate saves a record to the database with validation. Panics if any error occurs.
func MustCreate(tx *pop.Connection, f interface{}) {
	// Use `create` instead of `tx.Create` to check validation rules
	err := create(tx, f)
	if err != nil {
		panic(fmt.Sprintf("error creating %T fixture, %s", f, err))
	}
}

func randStr(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Int63()%int64(len(chars))]
	}
	return string(b)
}

func DestroyAll() {
	// delete all Users and UserAccessTokens
	var users Users
	destroyTable(&users)

	// delete all Projects, TNMTickets, line items, tokens and approvals
	var projects Projects
	destroyTable(&projects)

	// delete all Assets
	var assets Assets
	destroyTable(&assets)

	// delete all AuditLogs and EmailLogs
	var audits AuditLogs
	destroyTable(&audits)
	var emails EmailLogs
	destroyTable(&emails)

	// reset the settings row so each test starts from env defaults
	var settings []AppSettings
	destroyTable(&settings)
}

func destroyTable(i interface{}) {
	if err := DB.All(i); err != nil {
		panic(err.Error())
	}
	if err := DB.Destroy(i); err != nil {
		panic(err.Error())
	}
}

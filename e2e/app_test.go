package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) fill(selector, value string) {
	err := suite.page.Locator(selector).Fill(value)
	require.NoError(suite.T(), err, "failed to fill %s", selector)
}

func (suite *E2ETestSuite) click(selector string) {
	err := suite.page.Locator(selector).Click()
	require.NoError(suite.T(), err, "failed to click %s", selector)
}

func (suite *E2ETestSuite) visible(selector, msg string) {
	err := suite.expect.Locator(suite.page.Locator(selector)).ToBeVisible()
	require.NoError(suite.T(), err, msg)
}

func (suite *E2ETestSuite) registerAndLogin(username, password string) {
	_, err := suite.page.Goto(appURL + "/register")
	require.NoError(suite.T(), err)

	suite.visible(".register-form", "register form not visible")
	suite.fill("input[name=username]", username)
	suite.fill("input[name=password]", password)
	suite.click(".register-btn")

	// Registration lands on the login page
	suite.visible(".login-form", "login form not visible after registering")
	suite.fill("input[name=username]", username)
	suite.fill("input[name=password]", password)
	suite.click(".login-btn")

	suite.visible(".dashboard-screen", "did not redirect to dashboard after login")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.registerAndLogin("e2edriver", "testpass123")

	err := suite.expect.Locator(suite.page.Locator("#total-cost")).ToHaveText("0.00")
	require.NoError(suite.T(), err, "new user should start at zero")

	// Add two expenses
	for _, e := range []struct{ date, cost string }{{"2024-01-01", "10.50"}, {"2024-01-02", "5"}} {
		suite.fill("#expense-form input[name=date]", e.date)
		suite.fill("#expense-form input[name=cost]", e.cost)
		suite.click("#expense-form button.submit")
		suite.visible(".dashboard-screen", "dashboard not shown after adding expense")
	}

	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToHaveCount(2)
	require.NoError(suite.T(), err, "expense item count mismatch")

	err = suite.expect.Locator(suite.page.Locator("#total-cost")).ToHaveText("15.50")
	require.NoError(suite.T(), err, "total mismatch")

	// Delete the first one
	suite.click(".expense-item >> nth=0 >> .delete-btn")

	err = suite.expect.Locator(suite.page.Locator(".flash-success")).ToHaveText("Expense deleted successfully.")
	require.NoError(suite.T(), err, "delete flash missing")

	err = suite.expect.Locator(suite.page.Locator("#total-cost")).ToHaveText("5.00")
	require.NoError(suite.T(), err, "total after delete mismatch")

	// Log out and make sure the dashboard is closed again
	suite.click("a[href='/logout']")
	suite.visible(".home-screen", "home page not shown after logout")

	_, err = suite.page.Goto(appURL + "/dashboard")
	require.NoError(suite.T(), err)
	suite.visible(".login-form", "dashboard should redirect to login after logout")
}

func (suite *E2ETestSuite) TestDuplicateRegistration() {
	suite.registerAndLogin("e2edupe", "testpass123")
	suite.click("a[href='/logout']")

	_, err := suite.page.Goto(appURL + "/register")
	require.NoError(suite.T(), err)
	suite.fill("input[name=username]", "e2edupe")
	suite.fill("input[name=password]", "otherpass")
	suite.click(".register-btn")

	err = suite.expect.Locator(suite.page.Locator(".field-error")).ToContainText("This username already exists")
	require.NoError(suite.T(), err, "duplicate username error not shown")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

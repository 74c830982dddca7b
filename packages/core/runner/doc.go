// Package runner starts the external tools of a pwrun session: npm,
// the Playwright test runner and the Allure report generator.
package runner

// Package testrail creates the TestRail run that a test session reports into.
//
// Only two API endpoints are used: get_cases, to list the automated cases
// of the suite selected by the FILTER setting, and add_run, to create a run
// containing exactly those cases. Credentials are read from the environment
// (TEST_RAIL_URL, TEST_RAIL_USER_NAME, TEST_RAIL_API_KEY) and never embedded.
package testrail

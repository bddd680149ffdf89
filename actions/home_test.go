package actions

import "net/http"

func (as *ActionSuite) Test_HomeHandler() {
	res := as.JSON("/").Get()

	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)
	as.Contains(res.Body.String(), "Welcome to the", "missing welcome message")
}

func (as *ActionSuite) Test_statusHandler() {
	res := as.JSON("/status").Get()

	as.Equal(http.StatusNoContent, res.Code, "incorrect status code returned: %d", res.Code)
}

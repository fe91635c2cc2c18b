// Package testutil holds helpers shared by HTTP-facing tests.
//
// MockServer wraps httptest.Server with per-method route registration so a
// test can stub out a remote endpoint (such as the GitHub releases API used
// by the update checker) without touching the network:
//
//	ms := testutil.NewMockServer()
//	defer ms.Close()
//	ms.HandleJSON("GET", "/releases/latest", http.StatusOK, release)
//
// Point the code under test at ms.URL() and unregistered paths return a
// JSON 404, so a test that hits the wrong route fails loudly instead of
// hanging on a real connection.
package testutil

package httpapi

import (
	"net/http"
)

// NewMux returns a mux serving /healthz from probe. Feature modules register
// their own routes on it.
func NewMux(probe DatasetProbe) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, probe)
	return mux
}

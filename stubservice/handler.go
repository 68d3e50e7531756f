package stubservice

import (
	"encoding/json"
	"net/http"

	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/servicedef"

	"github.com/gorilla/mux"
)

// ServiceName is reported by the health resource.
const ServiceName = "address-proxy-stub"

type handler struct {
	logger framework.Logger
}

// NewProxyHandler returns a handler that stands in for the address proxy. It answers the
// health resource for any method.
func NewProxyHandler(logger framework.Logger) http.Handler {
	h := &handler{logger: nonNil(logger)}
	router := mux.NewRouter()
	router.HandleFunc("/health", h.ReportHealth)
	router.HandleFunc("/validate", h.ValidateAddress).Methods(http.MethodPost)
	return router
}

// NewWebhookHandler returns a handler that stands in for the n8n validation workflow, serving
// POST requests on webhookPath.
func NewWebhookHandler(webhookPath string, logger framework.Logger) http.Handler {
	h := &handler{logger: nonNil(logger)}
	router := mux.NewRouter()
	router.HandleFunc(webhookPath, h.ValidateAddress).Methods(http.MethodPost)
	return router
}

func nonNil(logger framework.Logger) framework.Logger {
	if logger == nil {
		return framework.NullLogger()
	}
	return logger
}

func (h *handler) ReportHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func (h *handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var address servicedef.AddressRecord
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		h.logger.Printf("Rejected malformed validation request: %s", err)
		writeJSON(w, http.StatusBadRequest, servicedef.ValidationResult{
			Corrections: []servicedef.Correction{},
			Error:       "invalid JSON body: " + err.Error(),
		})
		return
	}

	result := Validate(address)
	h.logger.Printf("Validated %q %q %q: valid=%t corrections=%d",
		address.Street, address.Postcode, address.City, result.IsValid, len(result.Corrections))
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

package domain

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
)

// Category identifies the operator-facing class of a connection failure.
type Category string

const (
	// CategoryListenerDown indicates no listener accepted the connection on the configured port
	CategoryListenerDown Category = "listener-down"
	// CategoryServiceUnknown indicates the listener is running but does not know the service name
	CategoryServiceUnknown Category = "service-unknown"
	// CategoryAuthFailed indicates the listener and service accepted the connection but the credentials were rejected
	CategoryAuthFailed Category = "auth-failed"
	// CategoryAccountLocked indicates the credentials matched an account that is locked
	CategoryAccountLocked Category = "account-locked"
	// CategoryNameResolution indicates the host or connect identifier could not be resolved
	CategoryNameResolution Category = "name-resolution"
	// CategoryTimeout indicates the connection attempt timed out before the listener answered
	CategoryTimeout Category = "timeout"
	// CategoryUnknown indicates a failure that did not match any known class
	CategoryUnknown Category = "unknown"
)

// Diagnosis is the operator-facing classification of a connection failure,
// pairing the failure category and error code with the manual remedy.
type Diagnosis struct {
	Category Category `json:"category"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
	Remedy   string   `json:"remedy"`
}

var oraCodePattern = regexp.MustCompile(`ORA-(\d{5})`)

var remedies = map[Category]string{
	CategoryListenerDown:   "verify the database listener service is running on the host and that the configured port matches the listener port",
	CategoryServiceUnknown: "verify the service name is registered with the listener and that the pluggable database is open",
	CategoryAuthFailed:     "verify the username and password supplied through the environment variables",
	CategoryAccountLocked:  "unlock the account with ALTER USER ... ACCOUNT UNLOCK or connect as an administrator",
	CategoryNameResolution: "verify the hostname resolves from this machine and the connect identifier is spelled correctly",
	CategoryTimeout:        "verify the host is reachable and that a firewall rule allows inbound connections on the listener port",
	CategoryUnknown:        "inspect the reported error and the database alert log",
}

var oraCategories = map[string]Category{
	"ORA-12541": CategoryListenerDown,
	"ORA-12514": CategoryServiceUnknown,
	"ORA-12505": CategoryServiceUnknown,
	"ORA-12154": CategoryNameResolution,
	"ORA-12170": CategoryTimeout,
	"ORA-01017": CategoryAuthFailed,
	"ORA-28000": CategoryAccountLocked,
}

// Classify maps a connection failure to an operator diagnosis. Database error
// codes take precedence over network-level classification so that an
// authentication failure is reported distinctly from an unreachable listener.
func Classify(err error) *Diagnosis {
	if err == nil {
		return nil
	}

	diagnosis := &Diagnosis{
		Category: CategoryUnknown,
		Message:  err.Error(),
	}

	if code := oraCodePattern.FindString(err.Error()); len(code) > 0 {
		diagnosis.Code = code
		if category, ok := oraCategories[code]; ok {
			diagnosis.Category = category
		}
		diagnosis.Remedy = remedies[diagnosis.Category]
		return diagnosis
	}

	diagnosis.Category = classifyNetwork(err)
	diagnosis.Remedy = remedies[diagnosis.Category]
	return diagnosis
}

func classifyNetwork(err error) Category {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CategoryTimeout
		}
		return CategoryNameResolution
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	if strings.Contains(err.Error(), "connection refused") {
		return CategoryListenerDown
	}

	return CategoryUnknown
}

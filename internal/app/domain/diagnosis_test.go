package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		require.Nil(t, Classify(nil))
	})

	t.Run("database error codes", func(t *testing.T) {
		cases := map[string]Category{
			"ORA-12541: TNS:no listener":                                 CategoryListenerDown,
			"ORA-12514: TNS:listener does not currently know of service": CategoryServiceUnknown,
			"ORA-12505: TNS:listener does not currently know of SID":     CategoryServiceUnknown,
			"ORA-12154: TNS:could not resolve the connect identifier":    CategoryNameResolution,
			"ORA-12170: TNS:Connect timeout occurred":                    CategoryTimeout,
			"ORA-01017: invalid username/password; logon denied":         CategoryAuthFailed,
			"ORA-28000: The account is locked":                           CategoryAccountLocked,
		}

		for message, category := range cases {
			diagnosis := Classify(errors.New(message))
			require.NotNil(t, diagnosis)
			require.Equal(t, category, diagnosis.Category, message)
			require.Equal(t, message[:9], diagnosis.Code)
			require.NotEmpty(t, diagnosis.Remedy)
		}
	})

	t.Run("wrapped database error", func(t *testing.T) {
		err := fmt.Errorf("failed to connect: %w", errors.New("ORA-01017: invalid username/password; logon denied"))

		diagnosis := Classify(err)
		require.Equal(t, CategoryAuthFailed, diagnosis.Category)
		require.Equal(t, "ORA-01017", diagnosis.Code)
	})

	t.Run("unknown database error code", func(t *testing.T) {
		diagnosis := Classify(errors.New("ORA-00600: internal error code"))
		require.Equal(t, CategoryUnknown, diagnosis.Category)
		require.Equal(t, "ORA-00600", diagnosis.Code)
		require.NotEmpty(t, diagnosis.Remedy)
	})

	t.Run("name resolution failure", func(t *testing.T) {
		err := fmt.Errorf("failed to resolve: %w", &net.DNSError{Err: "no such host", Name: "nosuch.example.com", IsNotFound: true})

		diagnosis := Classify(err)
		require.Equal(t, CategoryNameResolution, diagnosis.Category)
		require.Empty(t, diagnosis.Code)
	})

	t.Run("network timeout", func(t *testing.T) {
		err := fmt.Errorf("failed to reach the listener: %w", &net.DNSError{Err: "i/o timeout", Name: "dbhost", IsTimeout: true})
		require.Equal(t, CategoryTimeout, Classify(err).Category)

		require.Equal(t, CategoryTimeout, Classify(context.DeadlineExceeded).Category)
	})

	t.Run("connection refused", func(t *testing.T) {
		err := errors.New("dial tcp 127.0.0.1:1521: connect: connection refused")
		require.Equal(t, CategoryListenerDown, Classify(err).Category)
	})

	t.Run("unclassified", func(t *testing.T) {
		diagnosis := Classify(errors.New("something unexpected"))
		require.Equal(t, CategoryUnknown, diagnosis.Category)
		require.Equal(t, "something unexpected", diagnosis.Message)
		require.NotEmpty(t, diagnosis.Remedy)
	})
}

package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/intellisort/intellisort/internal/classifier"
)

const baseURL = "http://classifier.local"

func newTestGateway() classifier.System {
	httpClient := &http.Client{Transport: httpmock.DefaultTransport}
	return classifier.NewWithClient(
		baseURL,
		httpClient,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestClassifyNormalization(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name         string
		body         string
		wantCategory *string
		wantDisposal *string
		wantConf     *float64
		wantTip      *string
	}{
		{
			name:         "full response",
			body:         `{"waste_category":"plastic","disposal_type":"Recyclable","confidence":0.92,"tip":"Rinse before recycling."}`,
			wantCategory: ptr("plastic"),
			wantDisposal: ptr("Recyclable"),
			wantConf:     fptr(0.92),
			wantTip:      ptr("Rinse before recycling."),
		},
		{
			name:         "single field present",
			body:         `{"disposal_type":"Recyclable"}`,
			wantDisposal: ptr("Recyclable"),
		},
		{
			name: "empty object",
			body: `{}`,
		},
		{
			name: "wrong types dropped",
			body: `{"waste_category":12,"confidence":"high","tip":null}`,
		},
		{
			name:     "integer confidence accepted",
			body:     `{"confidence":1}`,
			wantConf: fptr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.RegisterResponder(
				"POST", baseURL+"/classify",
				httpmock.NewStringResponder(200, tt.body),
			)

			result, err := newTestGateway().Classify(context.Background(), "data:image/jpeg;base64,AAAA")
			if err != nil {
				t.Fatalf("classify: %v", err)
			}

			assertStrField(t, "waste_category", result.WasteCategory, tt.wantCategory)
			assertStrField(t, "disposal_type", result.DisposalType, tt.wantDisposal)
			assertStrField(t, "tip", result.Tip, tt.wantTip)

			switch {
			case tt.wantConf == nil && result.Confidence != nil:
				t.Errorf("confidence = %v, want nil", *result.Confidence)
			case tt.wantConf != nil && result.Confidence == nil:
				t.Errorf("confidence = nil, want %v", *tt.wantConf)
			case tt.wantConf != nil && *result.Confidence != *tt.wantConf:
				t.Errorf("confidence = %v, want %v", *result.Confidence, *tt.wantConf)
			}
		})
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(
		"POST", baseURL+"/classify",
		httpmock.NewErrorResponder(errors.New("connection refused")),
	)

	_, err := newTestGateway().Classify(context.Background(), "payload")
	if !errors.Is(err, classifier.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestClassifyUpstreamError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(
		"POST", baseURL+"/classify",
		httpmock.NewStringResponder(503, "model loading"),
	)

	_, err := newTestGateway().Classify(context.Background(), "payload")
	if !errors.Is(err, classifier.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q missing upstream status", err)
	}
	if !strings.Contains(err.Error(), "model loading") {
		t.Errorf("error %q missing upstream body", err)
	}
}

func TestClassifyMalformedResponse(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(
		"POST", baseURL+"/classify",
		httpmock.NewStringResponder(200, "not json"),
	)

	_, err := newTestGateway().Classify(context.Background(), "payload")
	if !errors.Is(err, classifier.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestPing(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	t.Run("healthy", func(t *testing.T) {
		httpmock.RegisterResponder(
			"GET", baseURL+"/health",
			httpmock.NewStringResponder(200, `{"status":"ok"}`),
		)

		if err := newTestGateway().Ping(context.Background()); err != nil {
			t.Errorf("ping: %v", err)
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		httpmock.RegisterResponder(
			"GET", baseURL+"/health",
			httpmock.NewStringResponder(500, ""),
		)

		err := newTestGateway().Ping(context.Background())
		if !errors.Is(err, classifier.ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})
}

func assertStrField(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %q, want nil", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %q", name, *want)
	case want != nil && *got != *want:
		t.Errorf("%s = %q, want %q", name, *got, *want)
	}
}

func ptr(s string) *string    { return &s }
func fptr(f float64) *float64 { return &f }

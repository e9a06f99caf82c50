package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelOperation = "operation"
	ProfilingLabelBranch    = "ramo"
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
)

// Claims operations used as profiling labels
const (
	OperationValidateAdjustments = "validar_ajustes"
	OperationApplyAdjustments    = "aplicar_ajustes"
	OperationExportReserves      = "exportar_reservas"
	OperationReconcileReserves   = "conciliar_reservas"
)

// MaxLabelValueLength caps label values to keep cardinality bounded
const MaxLabelValueLength = 128

// HighCardinalityLabels are dropped from profiling labels
var HighCardinalityLabels = map[string]bool{
	"num_siniestro": true,
	"usuario":       true,
	"request_id":    true,
	"trace_id":      true,
	"span_id":       true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to its samples.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// ClaimsOperationLabels builds the labels of a reserve service operation.
func ClaimsOperationLabels(operation, codRamo string) map[string]string {
	labels := map[string]string{ProfilingLabelOperation: operation}
	if codRamo != "" {
		labels[ProfilingLabelBranch] = codRamo
	}
	return labels
}

// HTTPRequestLabels builds the labels of an HTTP request.
func HTTPRequestLabels(route, method string) map[string]string {
	labels := make(map[string]string, 2)
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	return labels
}

// sanitizeLabels returns sorted key/value pairs without empty or
// high-cardinality entries, values truncated to MaxLabelValueLength.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	copied := maps.Clone(labels)
	keys := make([]string, 0, len(copied))
	for k := range copied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		value := copied[key]
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		if k := sanitizeLabelKey(key); k != "" {
			pairs = append(pairs, k, value)
		}
	}
	return pairs
}

func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

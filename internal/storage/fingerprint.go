package storage

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies a run by everything that determines its output.
// Two runs with equal fingerprints produce the same trajectory.
func Fingerprint(system string, params map[string]float64, init []float64, dt, duration float64, integrator string) string {
	h := xxhash.New()
	h.WriteString(system)
	h.WriteString("|")
	h.WriteString(integrator)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.WriteString("|" + name + "=")
		writeFloat(h, params[name])
	}
	h.WriteString("|init")
	for _, v := range init {
		h.WriteString(",")
		writeFloat(h, v)
	}
	h.WriteString("|dt=")
	writeFloat(h, dt)
	h.WriteString("|T=")
	writeFloat(h, duration)

	return fmt.Sprintf("%016x", h.Sum64())
}

func writeFloat(h *xxhash.Digest, v float64) {
	h.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
}

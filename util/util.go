package util

import (
	"net/http"
	"strings"
)

var (
	XRealIP       = http.CanonicalHeaderKey("X-Real-Ip")
	XForwardedFor = http.CanonicalHeaderKey("X-Forwarded-For")
)

func FindTrueIP(r *http.Request) string {
	switch {
	case r.Header.Get(XForwardedFor) != "":
		fwd := r.Header.Get(XForwardedFor)
		s := strings.Index(fwd, ", ")
		if s == -1 {
			s = len(fwd)
		}
		return fwd[:s]
	case r.Header.Get(XRealIP) != "":
		return r.Header.Get(XRealIP)
	default:
		return strings.Split(r.RemoteAddr, ":")[0]
	}
}

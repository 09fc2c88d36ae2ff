package webd

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	ghandlers "github.com/gorilla/handlers"
)

// accessLog receives one Common Log Format line per request.
var accessLog io.Writer = os.Stdout

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Add("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		w.Header().Add("Access-Control-Allow-Methods", "GET, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

// buildAccessLine builds an access log entry for req in Apache Combined Log Format.
// ts is the time the request was received.
// status and size are the response HTTP status and body size.
func buildAccessLine(req *http.Request, u url.URL, ts time.Time, status int, size int) []byte {
	username := "-"
	if u.User != nil {
		if name := u.User.Username(); name != "" {
			username = name
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	for _, v := range req.Header.Values("X-Forwarded-For") {
		host += "->" + v
	}

	uri := req.RequestURI
	if uri == "" {
		uri = u.RequestURI()
	}

	buf := make([]byte, 0, 2*(len(host)+len(uri)+len(req.Proto)+len(req.UserAgent())+64))
	buf = append(buf, host...)
	buf = append(buf, " - "...)
	buf = append(buf, username...)
	buf = append(buf, " ["...)
	buf = append(buf, ts.Format("02/Jan/2006:15:04:05 -0700")...)
	buf = append(buf, "] "...)
	buf = strconv.AppendQuote(buf, req.Method+" "+uri+" "+req.Proto)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(status), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(size), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendQuote(buf, req.Referer())
	buf = append(buf, ' ')
	buf = strconv.AppendQuote(buf, req.UserAgent())
	return buf
}

func writeLog(writer io.Writer, params ghandlers.LogFormatterParams) {
	buf := buildAccessLine(params.Request, params.URL, params.TimeStamp, params.StatusCode, params.Size)
	buf = append(buf, '\n')
	_, _ = writer.Write(buf)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CustomLoggingHandler(accessLog, next, writeLog)
}

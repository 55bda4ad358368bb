package testutil

import (
	"io"
	"net/http"
	"sync"
)

// These functions allow us to mock http responses from nsqd.

var EmptyHeaders = make(map[string]string, 0)

// Returns an http handler function that returns the specified
// string, along with the specified headers and status.
func HttpStringResponder(headers map[string]string, status int, data string) http.HandlerFunc {
	f := func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w, headers)
		w.WriteHeader(status)
		w.Write([]byte(data))
	}
	return http.HandlerFunc(f)
}

// NSQRecorder stands in for nsqd's /pub endpoint. It records the
// body posted to each topic.
type NSQRecorder struct {
	PublishError error
	mutex        sync.Mutex
	messages     map[string][]string
}

func NewNSQRecorder() *NSQRecorder {
	return &NSQRecorder{messages: make(map[string][]string)}
}

func (rec *NSQRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	topic := r.URL.Query().Get("topic")
	rec.mutex.Lock()
	rec.messages[topic] = append(rec.messages[topic], string(data))
	rec.mutex.Unlock()
	w.Write([]byte("OK"))
}

// Publish records body as if a producer had published it to topic.
// This lets the recorder stand in for the TCP alert producer too.
func (rec *NSQRecorder) Publish(topic string, body []byte) error {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()
	if rec.PublishError != nil {
		return rec.PublishError
	}
	rec.messages[topic] = append(rec.messages[topic], string(body))
	return nil
}

func (rec *NSQRecorder) Stop() {}

// Messages returns what was posted to topic, in order.
func (rec *NSQRecorder) Messages(topic string) []string {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()
	return append([]string{}, rec.messages[topic]...)
}

func setHeaders(w http.ResponseWriter, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
}

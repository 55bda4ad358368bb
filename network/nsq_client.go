package network

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

type NSQClient struct {
	URL string
}

// NewNSQClient returns a new NSQ client that will connect to the NSQ
// server at the specified url. The URL is typically available through
// Config.NsqURL, and usually ends with :4151. This is the URL to which
// we post WorkItem IDs we want the workers to pick up.
//
// Note that this client provides write access to the queue. It does
// not provide read access. The workers do the reading.
func NewNSQClient(url string) *NSQClient {
	return &NSQClient{URL: url}
}

// Enqueue puts a WorkItem ID into a work topic, such as
// apt_fetch_topic or apt_restore_topic.
func (client *NSQClient) Enqueue(topic string, workItemID int64) error {
	idAsString := strconv.FormatInt(workItemID, 10)
	return client.enqueueString(topic, idAsString)
}

func (client *NSQClient) enqueueString(topic string, data string) error {
	url := fmt.Sprintf("%s/pub?topic=%s", client.URL, topic)
	resp, err := http.Post(url, "text/html", bytes.NewBuffer([]byte(data)))
	if err != nil {
		return fmt.Errorf("Nsqd returned an error when queuing data: %v", err)
	}
	if resp == nil {
		return fmt.Errorf("No response from nsqd at '%s'. Is it running?", url)
	}

	// nsqd sends a simple OK. We have to read the response body,
	// or the connection will hang open forever.
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyText := "[no response body]"
		if len(body) > 0 {
			bodyText = string(body)
		}
		return fmt.Errorf("nsqd returned status code %d when attempting to queue data. "+
			"Response body: %s", resp.StatusCode, bodyText)
	}
	return nil
}

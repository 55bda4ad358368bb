package network_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/APTrust/pharos/network"
	"github.com/APTrust/pharos/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNSQEnqueue(t *testing.T) {
	recorder := testutil.NewNSQRecorder()
	server := httptest.NewServer(recorder)
	defer server.Close()

	client := network.NewNSQClient(server.URL)
	require.Nil(t, client.Enqueue("apt_store_topic", 8080))
	require.Nil(t, client.Enqueue("apt_store_topic", 8081))
	assert.Equal(t, []string{"8080", "8081"}, recorder.Messages("apt_store_topic"))
	assert.Empty(t, recorder.Messages("apt_fetch_topic"))
}

func TestNSQEnqueueError(t *testing.T) {
	server := httptest.NewServer(testutil.HttpStringResponder(
		testutil.EmptyHeaders, http.StatusBadRequest, "INVALID_TOPIC"))
	defer server.Close()

	client := network.NewNSQClient(server.URL)
	err := client.Enqueue("###", 1)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "INVALID_TOPIC")
}

func TestNSQEnqueueNoServer(t *testing.T) {
	server := httptest.NewServer(testutil.HttpStringResponder(nil, http.StatusOK, "OK"))
	url := server.URL
	server.Close()

	client := network.NewNSQClient(url)
	assert.NotNil(t, client.Enqueue("apt_fetch_topic", 1))
}

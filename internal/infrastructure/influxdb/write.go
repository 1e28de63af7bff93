package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStreamRead records one reader iteration: how many bytes and
// samples a hardware read produced and how many subscribers remain
// attached afterwards. The write is non-blocking; data is batched and
// sent asynchronously.
func (c *Client) WriteStreamRead(deviceID string, bytes, samples, subscribers int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"stream_read",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"bytes":       bytes,
			"samples":     samples,
			"subscribers": subscribers,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteStreamSession records an entry lifecycle transition: event is
// "opened" or "closed", status the terminal wire status (zero unless the
// entry died on a device error).
func (c *Client) WriteStreamSession(deviceID, event string, status int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"stream_session",
		map[string]string{
			"device_id": deviceID,
			"event":     event,
		},
		map[string]interface{}{
			"status": status,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"promopilot.app/writer/internal/model"
)

// MessageProcessor processes a queue message.
type MessageProcessor func(ctx context.Context, msg Message) error

// Message is one write job read from the stream.
type Message struct {
	ID      string
	Job     model.WriteJob
	Attempt int
	TraceID string
	Raw     redis.XMessage
}

// ParseMessage decodes a stream entry. The job travels as a JSON payload
// field; entries without a decodable payload are DLQ material.
func ParseMessage(msg redis.XMessage) (Message, error) {
	payload, err := parseString(msg.Values, "payload")
	if err != nil {
		return Message{}, err
	}

	var job model.WriteJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return Message{}, fmt.Errorf("decoding payload: %w", err)
	}
	if job.JobID == "" {
		return Message{}, fmt.Errorf("missing job_id in payload")
	}

	attempt, err := parseOptionalInt(msg.Values, "attempt")
	if err != nil {
		return Message{}, err
	}
	if attempt == 0 {
		attempt = 1
	}

	traceID, err := parseOptionalString(msg.Values, "trace_id")
	if err != nil {
		return Message{}, err
	}

	return Message{
		ID:      msg.ID,
		Job:     job,
		Attempt: attempt,
		TraceID: traceID,
		Raw:     msg,
	}, nil
}

func messageValues(msg Message, attempt int) map[string]any {
	// Undecodable messages keep their raw fields so the DLQ entry shows
	// exactly what arrived.
	if msg.Job.JobID == "" && msg.Raw.Values != nil {
		values := make(map[string]any, len(msg.Raw.Values)+1)
		for k, v := range msg.Raw.Values {
			values[k] = v
		}
		return values
	}

	payload, _ := json.Marshal(msg.Job)
	values := map[string]any{
		"payload": string(payload),
		"attempt": attempt,
	}
	if msg.TraceID != "" {
		values["trace_id"] = msg.TraceID
	}
	return values
}

func parseString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func parseOptionalInt(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	str := fmt.Sprint(raw)
	num, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(raw), nil
}

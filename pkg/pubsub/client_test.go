package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		name      string
		projectID string
		topic     string
		want      string
	}{
		{name: "short id", projectID: "ppg-prod", topic: "ppg-workflow-events", want: "projects/ppg-prod/topics/ppg-workflow-events"},
		{name: "trims", projectID: " ppg-prod ", topic: " events ", want: "projects/ppg-prod/topics/events"},
		{name: "full name", projectID: "other", topic: "projects/ppg-prod/topics/events", want: "projects/ppg-prod/topics/events"},
		{name: "blank topic", projectID: "ppg-prod", topic: " ", want: ""},
		{name: "no project", projectID: "", topic: "events", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TopicResourceName(tc.projectID, tc.topic))
		})
	}
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, []string{"ppg-workflow-events"}, topicNames(config.PubSubConfig{WorkflowTopic: " ppg-workflow-events "}))
	assert.Empty(t, topicNames(config.PubSubConfig{}))
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{WorkflowTopic: "events"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)
}

func TestNilClient(t *testing.T) {
	var c *Client
	assert.Nil(t, c.Publisher("events"))
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

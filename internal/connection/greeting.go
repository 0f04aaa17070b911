package connection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/agentline/pkg/models"
)

// Agent services disagree on which signal triggers a welcome message, so the
// bootstrap fires the three common ones staggered: a conversationUpdate that
// announces the user joining, a startConversation event, and a webchat/join
// event. Agents that recognize an earlier signal typically ignore the later
// ones.
var greetingStagger = []time.Duration{0, 500 * time.Millisecond, time.Second}

// scheduleGreetingLocked queues the greeting signal sequence plus the grace
// fallback. Called with the mutex held, once per Connect, on the first
// transition to online.
func (m *Manager) scheduleGreetingLocked(epoch uint64) {
	user := m.userAccount()

	signals := []*models.Activity{
		{
			Type:         models.ActivityConversationUpdate,
			From:         user,
			MembersAdded: []models.ChannelAccount{user},
		},
		{
			Type: models.ActivityEvent,
			Name: "startConversation",
			From: user,
		},
		{
			Type: models.ActivityEvent,
			Name: "webchat/join",
			From: user,
		},
	}

	for i, act := range signals {
		act := act
		t := m.clock.AfterFunc(greetingStagger[i], func() { m.sendGreeting(epoch, act) })
		m.greetingTimers = append(m.greetingTimers, t)
	}

	if m.cfg.GreetingGrace > 0 {
		t := m.clock.AfterFunc(m.cfg.GreetingGrace, func() { m.greetingFallback(epoch) })
		m.greetingTimers = append(m.greetingTimers, t)
	}
}

// sendGreeting posts one greeting signal directly on the channel. It goes
// around SendActivity on purpose: greeting traffic must not update the
// adaptive typing length, and a connection that dropped between scheduling
// and firing should silently skip the signal rather than error.
func (m *Manager) sendGreeting(epoch uint64, act *models.Activity) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase != PhaseOnline || m.channel == nil {
		m.mu.Unlock()
		return
	}
	ch := m.channel
	m.mu.Unlock()

	act.ID = uuid.NewString()
	act.Timestamp = m.clock.Now()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()
	if _, err := ch.Send(ctx, act); err != nil {
		m.logger.Debug("greeting signal failed", "type", string(act.Type), "name", act.Name, "error", err)
		return
	}
	m.metrics.RecordActivitySent()
}

// greetingFallback fires after the grace period: if the agent never produced
// a message, an empty user message is sent as a last-resort greeting nudge.
func (m *Manager) greetingFallback(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase != PhaseOnline || m.channel == nil || m.agentResponded {
		m.mu.Unlock()
		return
	}
	ch := m.channel
	m.mu.Unlock()

	m.logger.Debug("no agent greeting within grace period, sending empty nudge")

	act := &models.Activity{
		Type:      models.ActivityMessage,
		ID:        uuid.NewString(),
		Timestamp: m.clock.Now(),
		From:      m.userAccount(),
		Text:      "",
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()
	if _, err := ch.Send(ctx, act); err != nil {
		m.logger.Debug("greeting fallback failed", "error", err)
		return
	}
	m.metrics.RecordActivitySent()
}

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/power/domain"
	"thermo-guard/internal/features/power/domain/mocks"
)

func endpoint(address string) domain.HostEndpoint {
	return domain.HostEndpoint{
		Address:  address,
		Username: "admin",
		Password: "secret",
	}
}

// stubSession builds a session whose power state read returns the given
// state and whose close always succeeds.
func stubSession(state domain.PowerState) *mocks.MockSession {
	session := new(mocks.MockSession)
	session.On("PowerState", mock.Anything).Return(state, nil)
	session.On("Close", mock.Anything).Return(nil)
	return session
}

func TestPowerOnFabricPowersOnEveryHost(t *testing.T) {
	connector := new(mocks.MockConnector)
	endpoints := []domain.HostEndpoint{endpoint("10.0.0.1"), endpoint("10.0.0.2")}

	sessions := make([]*mocks.MockSession, 0, len(endpoints))
	for _, ep := range endpoints {
		session := stubSession(domain.PowerOff)
		session.On("PowerOn", mock.Anything).Return(nil)
		connector.On("Connect", mock.Anything, ep).Return(session, nil)
		sessions = append(sessions, session)
	}

	service := NewService(connector)
	result := service.PowerOnFabric(context.Background(), endpoints)

	assert.True(t, result)
	for _, session := range sessions {
		session.AssertCalled(t, "PowerOn", mock.Anything)
		session.AssertCalled(t, "Close", mock.Anything)
	}
}

func TestPowerOnFabricSkipsHostsAlreadyOn(t *testing.T) {
	connector := new(mocks.MockConnector)
	ep := endpoint("10.0.0.1")

	session := stubSession(domain.PowerOn)
	connector.On("Connect", mock.Anything, ep).Return(session, nil)

	service := NewService(connector)
	result := service.PowerOnFabric(context.Background(), []domain.HostEndpoint{ep})

	assert.True(t, result)
	session.AssertNotCalled(t, "PowerOn", mock.Anything)
}

func TestPowerOnFabricStrictAggregateOnSessionFailure(t *testing.T) {
	connector := new(mocks.MockConnector)
	first := endpoint("10.0.0.1")
	second := endpoint("10.0.0.2")
	third := endpoint("10.0.0.3")

	firstSession := stubSession(domain.PowerOff)
	firstSession.On("PowerOn", mock.Anything).Return(nil)
	connector.On("Connect", mock.Anything, first).Return(firstSession, nil)

	connector.On("Connect", mock.Anything, second).Return(nil, fmt.Errorf("connection refused"))

	thirdSession := stubSession(domain.PowerOff)
	thirdSession.On("PowerOn", mock.Anything).Return(nil)
	connector.On("Connect", mock.Anything, third).Return(thirdSession, nil)

	service := NewService(connector)
	result := service.PowerOnFabric(context.Background(), []domain.HostEndpoint{first, second, third})

	// One unreachable host fails the procedure, but the remaining hosts
	// are still attempted.
	assert.False(t, result)
	firstSession.AssertCalled(t, "PowerOn", mock.Anything)
	thirdSession.AssertCalled(t, "PowerOn", mock.Anything)
}

func TestPowerOnFabricStrictAggregateOnResetFailure(t *testing.T) {
	connector := new(mocks.MockConnector)
	ep := endpoint("10.0.0.1")

	session := stubSession(domain.PowerOff)
	session.On("PowerOn", mock.Anything).Return(fmt.Errorf("reset rejected"))
	connector.On("Connect", mock.Anything, ep).Return(session, nil)

	service := NewService(connector)
	result := service.PowerOnFabric(context.Background(), []domain.HostEndpoint{ep})

	assert.False(t, result)
	session.AssertCalled(t, "Close", mock.Anything)
}

func TestAllPoweredOffTrueWhenEveryHostIsOff(t *testing.T) {
	connector := new(mocks.MockConnector)
	endpoints := []domain.HostEndpoint{endpoint("10.0.0.1"), endpoint("10.0.0.2")}
	for _, ep := range endpoints {
		connector.On("Connect", mock.Anything, ep).Return(stubSession(domain.PowerOff), nil)
	}

	service := NewService(connector)
	off, err := service.AllPoweredOff(context.Background(), endpoints)

	require.NoError(t, err)
	assert.True(t, off)
}

func TestAllPoweredOffFalseWhenAnyHostIsOn(t *testing.T) {
	connector := new(mocks.MockConnector)
	first := endpoint("10.0.0.1")
	second := endpoint("10.0.0.2")
	connector.On("Connect", mock.Anything, first).Return(stubSession(domain.PowerOff), nil)
	connector.On("Connect", mock.Anything, second).Return(stubSession(domain.PowerOn), nil)

	service := NewService(connector)
	off, err := service.AllPoweredOff(context.Background(), []domain.HostEndpoint{first, second})

	require.NoError(t, err)
	assert.False(t, off)
}

func TestAllPoweredOffFailsOnUnreadableHost(t *testing.T) {
	connector := new(mocks.MockConnector)
	ep := endpoint("10.0.0.1")
	connector.On("Connect", mock.Anything, ep).Return(nil, fmt.Errorf("connection refused"))

	service := NewService(connector)
	_, err := service.AllPoweredOff(context.Background(), []domain.HostEndpoint{ep})

	assert.Error(t, err)
}

func TestAllPoweredOffRejectsEmptyHostList(t *testing.T) {
	service := NewService(new(mocks.MockConnector))
	_, err := service.AllPoweredOff(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, common.IsInvalidInput(err))
}

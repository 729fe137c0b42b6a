package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		clientName string
		nickname   string
		phone      string
		wantErr    bool
	}{
		{name: "valid client", clientName: "Maria Aparecida", nickname: "Cida", phone: "11 98765-4321"},
		{name: "no nickname or phone", clientName: "João Pedro"},
		{name: "empty name", clientName: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.clientName, tt.nickname, tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.Equal(t, tt.clientName, client.Name)
			assert.Equal(t, tt.nickname, client.Nickname)
			assert.True(t, client.DebtBalance.IsZero())
			assert.True(t, client.Active)
			assert.NotEmpty(t, client.GetDomainEvents())
		})
	}
}

func TestClient_UpdateContact(t *testing.T) {
	client, err := NewClient("Maria Aparecida", "Cida", "")
	require.NoError(t, err)

	require.NoError(t, client.UpdateContact("Maria Aparecida Souza", "Cida", "11 98765-4321"))
	assert.Equal(t, "Maria Aparecida Souza", client.Name)
	assert.Equal(t, "11 98765-4321", client.Phone)

	assert.Error(t, client.UpdateContact("", "Cida", ""))
}

func TestClient_SetDebtBalance(t *testing.T) {
	client, err := NewClient("Maria Aparecida", "Cida", "")
	require.NoError(t, err)
	client.ClearDomainEvents()

	client.SetDebtBalance(decimal.NewFromFloat(42.505))
	assert.True(t, decimal.NewFromFloat(42.51).Equal(client.DebtBalance))
	assert.True(t, client.HasDebt())

	var found bool
	for _, event := range client.GetDomainEvents() {
		if event.EventType() == EventTypeClientDebtChanged {
			found = true
		}
	}
	assert.True(t, found)
}

func TestClient_SetDebtBalance_NoEventWhenUnchanged(t *testing.T) {
	client, err := NewClient("Maria Aparecida", "Cida", "")
	require.NoError(t, err)
	client.SetDebtBalance(decimal.NewFromFloat(10))
	client.ClearDomainEvents()

	client.SetDebtBalance(decimal.NewFromFloat(10))
	assert.Empty(t, client.GetDomainEvents())
}

func TestClient_HasDebt(t *testing.T) {
	client, err := NewClient("João Pedro", "", "")
	require.NoError(t, err)

	assert.False(t, client.HasDebt())
	client.SetDebtBalance(decimal.NewFromFloat(0.01))
	assert.True(t, client.HasDebt())
	client.SetDebtBalance(decimal.Zero)
	assert.False(t, client.HasDebt())
}

func TestClient_DisplayName(t *testing.T) {
	client, err := NewClient("Maria Aparecida", "Cida", "")
	require.NoError(t, err)
	assert.Equal(t, "Cida", client.DisplayName())

	client.Nickname = ""
	assert.Equal(t, "Maria Aparecida", client.DisplayName())
}

func TestClient_DeactivateActivate(t *testing.T) {
	client, err := NewClient("João Pedro", "", "")
	require.NoError(t, err)

	client.Deactivate()
	assert.False(t, client.Active)
	client.Activate()
	assert.True(t, client.Active)
}

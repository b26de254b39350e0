package simulate_payment

import (
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

// SimulatePaymentFailure ответ при неудачной оплате: ошибка и состояние после нее
type SimulatePaymentFailure struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Payment payment_status.Snapshot `json:"payment"`
}

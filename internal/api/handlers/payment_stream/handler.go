package payment_stream

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Handler struct {
	registry PaymentRegistry
	upgrader websocket.Upgrader
	logger   Logger
}

func NewHandler(registry PaymentRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin проверяет фронтовый прокси
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/payment/ws
// Отправляет клиенту каждое изменение состояния оплаты. Соединение закрывается,
// когда опрос остановлен и переход выполнен.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sess, _ := middleware.GetSession(r)

	poller, err := h.registry.GetOrStart(sess, bookingID)
	if err != nil {
		code := handlers.RespondServiceError(w, err)
		h.logger.Warn("GET /bookings/{id}/payment/ws - Failed to start poller: booking_id=%s, code=%d, error=%v",
			bookingID, code, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.logger.Warn("GET /bookings/{id}/payment/ws - Upgrade failed: booking_id=%s, error=%v", bookingID, err)
		return
	}

	updates, unsubscribe := poller.Subscribe()
	defer unsubscribe()

	h.logger.Info("GET /bookings/{id}/payment/ws - Client subscribed: booking_id=%s, user_id=%s", bookingID, sess.UserID)

	closed := make(chan struct{})
	go readPump(conn, closed)

	writePump(conn, updates, closed)
	h.logger.Info("GET /bookings/{id}/payment/ws - Client disconnected: booking_id=%s", bookingID)
}

// readPump читает управляющие кадры, чтобы обрабатывать pong и закрытие соединения
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump пишет состояния оплаты и ping до отключения клиента или завершения опроса
func writePump(conn *websocket.Conn, updates <-chan payment_status.Snapshot, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "payment tracking stopped"))
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
			if isFinal(snapshot) {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(snapshot.Status)))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return
		}
	}
}

// isFinal сообщает, что новых состояний не будет
func isFinal(s payment_status.Snapshot) bool {
	if s.Polling {
		return false
	}
	if s.Redirect != nil {
		return s.Redirect.Fired
	}
	return s.Status.IsTerminal()
}

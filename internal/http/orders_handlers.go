package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"taobao-orders/backend/internal/dateformat"
	"taobao-orders/backend/internal/domain/orders"
)

type orderHandlers struct {
	svc       *orders.Service
	exporter  *orders.Exporter
	formatter *dateformat.Formatter
	keepAlive time.Duration
}

// orderView is an order with its timestamps rendered for the caller's locale.
type orderView struct {
	orders.Order
	OrderDateText            string `json:"orderDateText"`
	CreatedAtText            string `json:"createdAtText"`
	UpdatedAtText            string `json:"updatedAtText"`
	ManualPriceUpdatedAtText string `json:"manualPriceUpdatedAtText,omitempty"`
}

type docView struct {
	UserID          string      `json:"userId"`
	UserDisplayName string      `json:"userDisplayName"`
	Orders          []orderView `json:"orders"`
}

type streamView struct {
	Orders  []docView `json:"orders"`
	UserIDs []string  `json:"userIds"`
	Loading bool      `json:"loading"`
	Error   string    `json:"error,omitempty"`
}

func toDocViews(f *dateformat.Formatter, docs []orders.OrdersDoc) []docView {
	out := make([]docView, 0, len(docs))
	for _, d := range docs {
		dv := docView{UserID: d.UserID, UserDisplayName: d.UserDisplayName, Orders: make([]orderView, 0, len(d.Orders))}
		for _, o := range d.Orders {
			ov := orderView{
				Order:         o,
				OrderDateText: f.Date(o.OrderDate),
				CreatedAtText: f.DateTime(o.CreatedAt),
				UpdatedAtText: f.DateTime(o.UpdatedAt),
			}
			if o.ManualPriceUpdatedAt != nil {
				ov.ManualPriceUpdatedAtText = f.DateTime(o.ManualPriceUpdatedAt)
			}
			dv.Orders = append(dv.Orders, ov)
		}
		out = append(out, dv)
	}
	return out
}

func toStreamView(f *dateformat.Formatter, v orders.View) streamView {
	ids := v.UserIDs
	if ids == nil {
		ids = []string{}
	}
	return streamView{Orders: toDocViews(f, v.Orders), UserIDs: ids, Loading: v.Loading, Error: v.Error}
}

func (h *orderHandlers) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, m := mapOrdersError(err)
	if status == 500 {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	}
	Fail(w, status, m)
}

// GET /v1/orders?userId=
func (h *orderHandlers) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.fail(w, r, err, "list orders failed")
		return
	}
	f := dateformat.ForRequest(r, h.formatter)
	WriteJSON(w, 200, map[string]any{"orders": toDocViews(f, docs), "locale": f.Locale()})
}

// GET /v1/orders/user-ids
func (h *orderHandlers) userIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.UserIDs(r.Context())
	if err != nil {
		h.fail(w, r, err, "list user ids failed")
		return
	}
	WriteJSON(w, 200, map[string]any{"userIds": ids})
}

// GET /v1/orders/stream?userId=&userIds=true
//
// Server-Sent Events: one "view" event per published view, a comment line
// every keepAlive. The listeners are released when the client disconnects.
func (h *orderHandlers) stream(w http.ResponseWriter, r *http.Request) {
	withIDs := false
	if q := r.URL.Query().Get("userIds"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			Fail(w, 400, "userIds must be a boolean")
			return
		}
		withIDs = b
	}

	rc := http.NewResponseController(w)
	// Long-lived response; the server's WriteTimeout does not apply.
	_ = rc.SetWriteDeadline(time.Time{})

	f := dateformat.ForRequest(r, h.formatter)
	logger := zerolog.Ctx(r.Context())

	watch := h.svc.NewWatch(r.Context(), r.URL.Query().Get("userId"))
	defer watch.Cleanup()

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(200)
	if err := rc.Flush(); err != nil {
		logger.Warn().Err(err).Msg("stream: flush not supported")
		return
	}

	watch.SubscribeOrders()
	if withIDs {
		watch.SubscribeUserIDs()
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-watch.Updates():
			if !ok {
				return
			}
			if err := writeEvent(w, "view", toStreamView(f, v)); err != nil {
				logger.Debug().Err(err).Msg("stream: client gone")
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

type manualPriceReq struct {
	ManualPrice *float64 `json:"manualPrice"`
}

// PUT /v1/orders/{userId}/items/{orderId}/manual-price
func (h *orderHandlers) updateManualPrice(w http.ResponseWriter, r *http.Request) {
	var req manualPriceReq
	if err := ReadJSON(r, &req); err != nil {
		Fail(w, 400, "invalid json")
		return
	}
	if req.ManualPrice == nil {
		Fail(w, 400, "manualPrice is required")
		return
	}
	res, err := h.svc.UpdateManualPrice(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "orderId"), *req.ManualPrice)
	if err != nil {
		h.fail(w, r, err, "update manual price failed")
		return
	}
	WriteJSON(w, 200, res)
}

// POST /v1/orders/{userId}/export
func (h *orderHandlers) export(w http.ResponseWriter, r *http.Request) {
	res, err := h.exporter.Export(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, err, "export orders failed")
		return
	}
	WriteJSON(w, 201, res)
}

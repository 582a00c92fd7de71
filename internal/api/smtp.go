package api

import (
	"errors"
	"net/http"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/smtpconf"
)

// smtpConfigRequest is the SMTP form body. The password is write-only, so it
// has its own field instead of reusing domain.SMTPConfig.
type smtpConfigRequest struct {
	Name      string `json:"name"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	UseTLS    bool   `json:"use_tls"`
	UseSSL    bool   `json:"use_ssl"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

func (req smtpConfigRequest) config(id int64) domain.SMTPConfig {
	c := domain.SMTPConfig{
		ID:        id,
		Name:      req.Name,
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		UseTLS:    req.UseTLS,
		UseSSL:    req.UseSSL,
		FromEmail: req.FromEmail,
		FromName:  req.FromName,
	}
	smtpconf.Normalize(&c)
	return c
}

// CreateSMTPConfig saves a new configuration.
//
//	POST /smtp-config
func (h *Handlers) CreateSMTPConfig(w http.ResponseWriter, r *http.Request) {
	var req smtpConfigRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	c := req.config(0)
	if err := smtpconf.Validate(c); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err := h.smtp.Save(r.Context(), &c); err != nil {
		httputil.InternalError(w, err)
		return
	}
	h.log.Info("smtp config created", "smtp_config_id", c.ID, "host", c.Host)
	httputil.Created(w, c)
}

// GetSMTPConfig returns a configuration without its password.
//
//	GET /smtp-config/{id}
func (h *Handlers) GetSMTPConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.smtp.Get(r.Context(), id)
	if err != nil {
		h.smtpError(w, err)
		return
	}
	httputil.OK(w, c)
}

// UpdateSMTPConfig replaces a configuration. An empty password keeps the
// stored one.
//
//	PUT /smtp-config/{id}
func (h *Handlers) UpdateSMTPConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req smtpConfigRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	existing, err := h.smtp.Get(r.Context(), id)
	if err != nil {
		h.smtpError(w, err)
		return
	}
	c := req.config(id)
	if c.Password == "" {
		c.Password = existing.Password
	}
	if err := smtpconf.Validate(c); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err := h.smtp.Save(r.Context(), &c); err != nil {
		h.smtpError(w, err)
		return
	}
	httputil.OK(w, c)
}

// TestSMTPConfig opens a connection with the stored settings and reports the
// outcome. A failed test is still a 200; the body carries success=false.
//
//	POST /smtp-config/{id}/test
func (h *Handlers) TestSMTPConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.smtp.Get(r.Context(), id)
	if err != nil {
		h.smtpError(w, err)
		return
	}
	res := h.tester.Test(r.Context(), *c)
	h.log.Info("smtp test", "smtp_config_id", id, "host", c.Host, "success", res.Success)
	httputil.OK(w, res)
}

func (h *Handlers) smtpError(w http.ResponseWriter, err error) {
	if errors.Is(err, smtpconf.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalError(w, err)
}

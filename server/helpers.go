package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/server/response"
)

var (
	transOnce sync.Once
	trans     ut.Translator
)

// translator registers english messages on gin's validator the first time it
// is needed.
func translator() ut.Translator {
	transOnce.Do(func() {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ = uni.GetTranslator("en")
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = enTranslations.RegisterDefaultTranslations(v, trans)
		}
	})
	return trans
}

// decode binds the JSON body into v, trims its tagged strings and turns
// validation failures into a readable message.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Translate(translator()))
			}
			return errs.New(strings.Join(msgs, "; "), http.StatusBadRequest)
		}
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.Conform(v); err != nil {
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	return nil
}

// writeError responds with the status carried by err.
func writeError(c *gin.Context, err error) {
	response.JSON(c, "", errs.StatusOf(err), nil, err)
}

func displayMode(c *gin.Context) models.DisplayMode {
	return models.ParseDisplayMode(c.DefaultQuery("mode", string(models.ByCount)))
}

// reportFilter reads ?q= and repeated or comma separated ?type= parameters.
func reportFilter(c *gin.Context) models.ReportFilter {
	f := models.ReportFilter{Query: strings.TrimSpace(c.Query("q"))}
	for _, t := range c.QueryArray("type") {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Types = append(f.Types, part)
			}
		}
	}
	return f
}

func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errs.New(fmt.Sprintf("invalid %s", name), http.StatusBadRequest)
	}
	return uint(v), nil
}

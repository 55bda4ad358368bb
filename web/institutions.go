package web

import (
	"net/http"

	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/gin-gonic/gin"
)

// GET /institutions
func (s *Server) InstitutionIndex(c *gin.Context) {
	listRecords[registry.Institution](s, c, filter.Institutions, &registry.Institution{}, c.Request.URL.Query())
}

// GET /institutions/:id
func (s *Server) InstitutionShow(c *gin.Context) {
	inst := loadRecord[registry.Institution](s, c, policy.KindInstitution, policy.ActionShow)
	if inst != nil {
		c.JSON(http.StatusOK, inst)
	}
}

// DELETE /institutions/:id
//
// Institutions are never deleted. This route exists so the answer is
// a clear 403 rather than a 404.
func (s *Server) InstitutionDelete(c *gin.Context) {
	loadRecord[registry.Institution](s, c, policy.KindInstitution, policy.ActionDestroy)
}

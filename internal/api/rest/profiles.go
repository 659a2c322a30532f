package rest

import (
	"net/http"

	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/v1/profile
func (s *Server) getProfile(c *gin.Context) {
	p := s.lm.Profile()
	if p == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("PROFILE_404", "No device profile loaded", nil))
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/v1/profiles
func (s *Server) listProfiles(c *gin.Context) {
	searchPaths := s.lm.Config().Mdib.ProfileSearchPaths

	s.logger.Info("Listing profiles", zap.Strings("search_paths", searchPaths))

	loader, err := profile.NewProfileLoader(searchPaths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("PROFILE_500", "Failed to create profile loader", err.Error()))
		return
	}

	entries, errs := loader.List()
	invalid := make([]string, 0, len(errs))
	for _, err := range errs {
		s.logger.Warn("Skipping invalid profile", zap.Error(err))
		invalid = append(invalid, err.Error())
	}
	if entries == nil {
		entries = []profile.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": entries,
		"count":    len(entries),
		"invalid":  invalid,
	})
}

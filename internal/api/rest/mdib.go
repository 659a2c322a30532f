package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/KevinKickass/OpenMDIB/internal/xmltree"
	"github.com/gin-gonic/gin"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var jsonOptions = protojson.MarshalOptions{UseProtoNames: true}

// DescriptorSummary is the list view of a descriptor.
type DescriptorSummary struct {
	Handle            string `json:"handle"`
	ParentHandle      string `json:"parent_handle,omitempty"`
	Type              string `json:"type"`
	DescriptorVersion uint64 `json:"descriptor_version"`
}

// StateSummary is the list view of a state.
type StateSummary struct {
	Handle           string `json:"handle"`
	DescriptorHandle string `json:"descriptor_handle"`
	Type             string `json:"type"`
	StateVersion     uint64 `json:"state_version"`
}

// PatchStateRequest changes a state in place. Value sets the metric value
// of numeric, string and enum metric states. Properties are set by name
// on the state itself.
type PatchStateRequest struct {
	Value      *string           `json:"value,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

func summarizeDescriptor(d model.Descriptor) DescriptorSummary {
	b := d.DescriptorBase()
	return DescriptorSummary{
		Handle:            b.Handle,
		ParentHandle:      b.ParentHandle,
		Type:              d.TypeName(),
		DescriptorVersion: b.DescriptorVersion,
	}
}

func summarizeState(s model.State) StateSummary {
	b := s.StateBase()
	return StateSummary{
		Handle:           model.StateHandle(s),
		DescriptorHandle: b.DescriptorHandle,
		Type:             s.TypeName(),
		StateVersion:     b.StateVersion,
	}
}

// respondError picks the HTTP status from the error class.
func respondError(c *gin.Context, code string, err error) {
	status := http.StatusInternalServerError
	if class, ok := types.Classify(err); ok {
		switch class {
		case types.ClassNotFound:
			status = http.StatusNotFound
		case types.ClassDecodeValidation:
			status = http.StatusBadRequest
		case types.ClassInvariantViolation:
			status = http.StatusConflict
		}
	}
	c.JSON(status, types.NewErrorResponse(code, err.Error(), nil))
}

func (s *Server) protoJSON(c *gin.Context, msg proto.Message) {
	raw, err := jsonOptions.Marshal(msg)
	if err != nil {
		respondError(c, "MDIB_500", err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// GET /api/v1/mdib
func (s *Server) getMdib(c *gin.Context) {
	m := s.lm.Mdib()
	switch c.DefaultQuery("format", "json") {
	case "xml":
		snap, err := m.Snapshot()
		if err != nil {
			respondError(c, "MDIB_500", err)
			return
		}
		var buf bytes.Buffer
		if err := xmltree.WriteSnapshot(&buf, snap); err != nil {
			respondError(c, "MDIB_500", err)
			return
		}
		c.Data(http.StatusOK, "application/xml", buf.Bytes())
	case "protojson":
		msg, err := m.WriteSnapshot()
		if err != nil {
			respondError(c, "MDIB_500", err)
			return
		}
		s.protoJSON(c, msg)
	case "json":
		g := m.Version()
		c.JSON(http.StatusOK, gin.H{
			"sequence_id":      g.SequenceID,
			"instance_id":      g.InstanceID,
			"mdib_version":     g.MdibVersion,
			"descriptor_count": m.Len(),
		})
	default:
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("MDIB_400", "Unknown format", c.Query("format")))
	}
}

// GET /api/v1/mdib/descriptors?kind=NumericMetricDescriptor
func (s *Server) listDescriptors(c *gin.Context) {
	m := s.lm.Mdib()
	var descriptors []model.Descriptor
	if name := c.Query("kind"); name != "" {
		k, ok := model.KindOf(name)
		if !ok || !k.IsDescriptor() {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("MDIB_400", "Unknown descriptor kind", name))
			return
		}
		descriptors = m.ByKind(k)
	} else {
		snap, err := m.Snapshot()
		if err != nil {
			respondError(c, "MDIB_500", err)
			return
		}
		descriptors = snap.Descriptors
	}

	out := make([]DescriptorSummary, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, summarizeDescriptor(d))
	}
	c.JSON(http.StatusOK, gin.H{
		"mdib_version": m.Version().MdibVersion,
		"descriptors":  out,
		"count":        len(out),
	})
}

// GET /api/v1/mdib/descriptors/:handle
func (s *Server) getDescriptor(c *gin.Context) {
	m := s.lm.Mdib()
	handle := c.Param("handle")
	d, ok := m.Descriptor(handle)
	if !ok {
		respondError(c, "MDIB_404", types.NotFound("rest.getDescriptor", "descriptor %s", handle))
		return
	}
	msg, err := m.Mapper().EncodeUnion(d, "AbstractDescriptor")
	if err != nil {
		respondError(c, "MDIB_500", err)
		return
	}
	s.protoJSON(c, msg)
}

// GET /api/v1/mdib/descriptors/:handle/children
func (s *Server) getChildren(c *gin.Context) {
	m := s.lm.Mdib()
	handle := c.Param("handle")
	if _, ok := m.Descriptor(handle); !ok {
		respondError(c, "MDIB_404", types.NotFound("rest.getChildren", "descriptor %s", handle))
		return
	}
	children := m.Children(handle)
	out := make([]DescriptorSummary, 0, len(children))
	for _, d := range children {
		out = append(out, summarizeDescriptor(d))
	}
	c.JSON(http.StatusOK, gin.H{
		"handle":   handle,
		"children": out,
	})
}

// GET /api/v1/mdib/states
func (s *Server) listStates(c *gin.Context) {
	snap, err := s.lm.Mdib().Snapshot()
	if err != nil {
		respondError(c, "MDIB_500", err)
		return
	}
	out := make([]StateSummary, 0, len(snap.States))
	for _, st := range snap.States {
		out = append(out, summarizeState(st))
	}
	c.JSON(http.StatusOK, gin.H{
		"mdib_version": snap.Version.MdibVersion,
		"states":       out,
		"count":        len(out),
	})
}

// GET /api/v1/mdib/states/:handle
func (s *Server) getState(c *gin.Context) {
	m := s.lm.Mdib()
	handle := c.Param("handle")
	st, ok := m.State(handle)
	if !ok {
		respondError(c, "MDIB_404", types.NotFound("rest.getState", "state %s", handle))
		return
	}
	msg, err := m.Mapper().EncodeUnion(st, "AbstractState")
	if err != nil {
		respondError(c, "MDIB_500", err)
		return
	}
	s.protoJSON(c, msg)
}

// PATCH /api/v1/mdib/states/:handle
func (s *Server) patchState(c *gin.Context) {
	var req PatchStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("MDIB_400", "Invalid request body", err.Error()))
		return
	}
	if req.Value == nil && len(req.Properties) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("MDIB_400", "Nothing to change", nil))
		return
	}

	m := s.lm.Mdib()
	updated, err := m.ModifyState(c.Param("handle"), func(st model.State) error {
		if req.Value != nil {
			if err := setMetricValue(st, *req.Value); err != nil {
				return err
			}
		}
		for name, text := range req.Properties {
			p, ok := prop.Find(st, name)
			if !ok {
				return types.DecodeValidation("rest.patchState", "%s has no property %s", st.TypeName(), name)
			}
			sc, ok := p.(prop.Scalar)
			if !ok {
				return types.DecodeValidation("rest.patchState", "property %s is not a scalar", name)
			}
			if err := sc.SetText(text); err != nil {
				return types.DecodeValidation("rest.patchState", "property %s: %v", name, err)
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, "MDIB_400", err)
		return
	}

	msg, err := m.Mapper().EncodeUnion(updated, "AbstractState")
	if err != nil {
		respondError(c, "MDIB_500", err)
		return
	}
	s.protoJSON(c, msg)
}

func setMetricValue(st model.State, text string) error {
	switch ms := st.(type) {
	case *model.NumericMetricState:
		if _, err := prop.ParseDecimal(text); err != nil {
			return types.DecodeValidation("rest.patchState", "value %q is not a decimal", text)
		}
		ms.MetricValue = pmtypes.NewNumericMetricValue(text)
	case *model.StringMetricState:
		ms.MetricValue = pmtypes.NewStringMetricValue(text)
	case *model.EnumStringMetricState:
		ms.MetricValue = pmtypes.NewStringMetricValue(text)
	default:
		return types.DecodeValidation("rest.patchState", "%s has no settable value", st.TypeName())
	}
	return nil
}

// archiveQuery reads ?handles=a,b&from=1&to=9 for the current sequence.
func (s *Server) archiveQuery(c *gin.Context) (storage.Query, error) {
	q := storage.Query{SequenceID: s.lm.Mdib().Version().SequenceID}
	if h := c.Query("handles"); h != "" {
		q.Handles = strings.Split(h, ",")
	}
	var err error
	if v := c.Query("from"); v != "" {
		if q.From, err = strconv.ParseUint(v, 10, 64); err != nil {
			return q, types.DecodeValidation("rest.archive", "from: %v", err)
		}
	}
	if v := c.Query("to"); v != "" {
		if q.To, err = strconv.ParseUint(v, 10, 64); err != nil {
			return q, types.DecodeValidation("rest.archive", "to: %v", err)
		}
	}
	if q.To != 0 && q.To < q.From {
		return q, types.DecodeValidation("rest.archive", "empty version range %d..%d", q.From, q.To)
	}
	return q, nil
}

type archivedEntry struct {
	MdibVersion uint64          `json:"mdib_version"`
	Handle      string          `json:"handle"`
	Value       json.RawMessage `json:"value"`
}

var errArchiveDisabled = errors.New("archive disabled")

// GET /api/v1/mdib/archive/descriptors
func (s *Server) getArchivedDescriptors(c *gin.Context) {
	store := s.lm.Archive()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse("ARCHIVE_503", errArchiveDisabled.Error(), nil))
		return
	}
	q, err := s.archiveQuery(c)
	if err != nil {
		respondError(c, "ARCHIVE_400", err)
		return
	}
	records, err := store.Descriptors(c.Request.Context(), q)
	if err != nil {
		respondError(c, "ARCHIVE_500", err)
		return
	}

	mapper := s.lm.Mdib().Mapper()
	out := make([]archivedEntry, 0, len(records))
	for _, rec := range records {
		d, err := archive.DecodeDescriptor(mapper, rec)
		if err != nil {
			respondError(c, "ARCHIVE_500", err)
			return
		}
		raw, err := s.unionJSON(d, "AbstractDescriptor")
		if err != nil {
			respondError(c, "ARCHIVE_500", err)
			return
		}
		out = append(out, archivedEntry{MdibVersion: rec.MdibVersion, Handle: rec.Handle, Value: raw})
	}
	c.JSON(http.StatusOK, gin.H{"descriptors": out, "count": len(out)})
}

// GET /api/v1/mdib/archive/states
func (s *Server) getArchivedStates(c *gin.Context) {
	store := s.lm.Archive()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse("ARCHIVE_503", errArchiveDisabled.Error(), nil))
		return
	}
	q, err := s.archiveQuery(c)
	if err != nil {
		respondError(c, "ARCHIVE_400", err)
		return
	}
	records, err := store.States(c.Request.Context(), q)
	if err != nil {
		respondError(c, "ARCHIVE_500", err)
		return
	}

	mapper := s.lm.Mdib().Mapper()
	out := make([]archivedEntry, 0, len(records))
	for _, rec := range records {
		st, err := archive.DecodeState(mapper, rec)
		if err != nil {
			respondError(c, "ARCHIVE_500", err)
			return
		}
		raw, err := s.unionJSON(st, "AbstractState")
		if err != nil {
			respondError(c, "ARCHIVE_500", err)
			return
		}
		out = append(out, archivedEntry{MdibVersion: rec.MdibVersion, Handle: rec.Handle, Value: raw})
	}
	c.JSON(http.StatusOK, gin.H{"states": out, "count": len(out)})
}

func (s *Server) unionJSON(v prop.Composite, family string) (json.RawMessage, error) {
	msg, err := s.lm.Mdib().Mapper().EncodeUnion(v, family)
	if err != nil {
		return nil, err
	}
	return jsonOptions.Marshal(msg)
}

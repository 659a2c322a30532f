package pb

// Container, report and service message names.
const (
	MdibVersionGroupMsg = "MdibVersionGroupMsg"
	MdDescriptionMsg    = "MdDescriptionMsg"
	MdStateMsg          = "MdStateMsg"
	MdibMsg             = "MdibMsg"
	ReportPartMsg       = "ReportPartMsg"
	EpisodicReportMsg   = "EpisodicReportMsg"
	ArchivedDescriptor  = "ArchivedDescriptorMsg"
	ArchivedState       = "ArchivedStateMsg"

	GetMdibRequest                    = "GetMdibRequestMsg"
	GetMdibResponse                   = "GetMdibResponseMsg"
	GetMdDescriptionRequest           = "GetMdDescriptionRequestMsg"
	GetMdDescriptionResponse          = "GetMdDescriptionResponseMsg"
	GetMdStateRequest                 = "GetMdStateRequestMsg"
	GetMdStateResponse                = "GetMdStateResponseMsg"
	EpisodicReportRequest             = "EpisodicReportRequestMsg"
	GetDescriptorsFromArchiveRequest  = "GetDescriptorsFromArchiveRequestMsg"
	GetDescriptorsFromArchiveResponse = "GetDescriptorsFromArchiveResponseMsg"
	GetStatesFromArchiveRequest       = "GetStatesFromArchiveRequestMsg"
	GetStatesFromArchiveResponse      = "GetStatesFromArchiveResponseMsg"
)

// Services and their methods.
const (
	GetService             = "GetService"
	MethodGetMdib          = "GetMdib"
	MethodGetMdDescription = "GetMdDescription"
	MethodGetMdState       = "GetMdState"
	ReportingService       = "MdibReportingService"
	MethodEpisodicReport   = "EpisodicReport"
	ArchiveService         = "ArchiveService"
	MethodGetDescriptors   = "GetDescriptorsFromArchive"
	MethodGetStates        = "GetStatesFromArchive"
)

// Report types carried in EpisodicReportMsg.a_report_type, in wire order.
var ReportTypes = []string{
	"EPISODIC_METRIC_REPORT",
	"EPISODIC_ALERT_REPORT",
	"EPISODIC_COMPONENT_REPORT",
	"EPISODIC_OPERATIONAL_STATE_REPORT",
	"EPISODIC_CONTEXT_REPORT",
	"DESCRIPTION_MODIFICATION_REPORT",
}

func containerMessages() []message {
	group := raw("a_mdib_version_group", msgOf("MdibVersionGroup"))
	descriptors := rawList("descriptor", unionOf("AbstractDescriptor"))
	states := rawList("state", unionOf("AbstractState"))
	handles := rawList("handle_ref", plainString)
	return []message{
		block("MdibVersionGroup", "",
			attr("MdibVersion", uint64Value),
			attr("SequenceId", plainString),
			attr("InstanceId", uint64Value),
		),
		block("MdDescription", "",
			elems("Mds", msgOf("MdsDescriptor")),
			attr("DescriptionVersion", uint64Value),
		),
		block("MdState", "",
			states,
			attr("StateVersion", uint64Value),
		),
		block("Mdib", "",
			group,
			elem("MdDescription", msgOf("MdDescription")),
			elem("MdState", msgOf("MdState")),
		),
		enumMsg("ReportType", ReportTypes...),
		block("ReportPart", "",
			attr("ParentDescriptor", stringValue),
			attr("ModificationType", msgOf("ModificationType")),
			descriptors,
			states,
		),
		block("EpisodicReport", "",
			group,
			attr("ReportType", msgOf("ReportType")),
			states,
			elems("ReportPart", msgOf("ReportPart")),
		),
		block("ArchivedDescriptor", "",
			attr("MdibVersion", uint64Value),
			attr("ParentDescriptor", stringValue),
			raw("descriptor", unionOf("AbstractDescriptor")),
		),
		block("ArchivedState", "",
			attr("MdibVersion", uint64Value),
			raw("state", unionOf("AbstractState")),
		),

		block("GetMdibRequest", ""),
		block("GetMdibResponse", "", elem("Mdib", msgOf("Mdib"))),
		block("GetMdDescriptionRequest", "", handles),
		block("GetMdDescriptionResponse", "", group, elem("MdDescription", msgOf("MdDescription"))),
		block("GetMdStateRequest", "", handles),
		block("GetMdStateResponse", "", group, elem("MdState", msgOf("MdState"))),
		block("EpisodicReportRequest", "", rawList("action", plainString)),
		block("GetDescriptorsFromArchiveRequest", "",
			handles,
			attr("FromMdibVersion", uint64Value),
			attr("ToMdibVersion", uint64Value),
		),
		block("GetDescriptorsFromArchiveResponse", "", elems("ArchivedDescriptor", msgOf("ArchivedDescriptor"))),
		block("GetStatesFromArchiveRequest", "",
			handles,
			attr("FromMdibVersion", uint64Value),
			attr("ToMdibVersion", uint64Value),
		),
		block("GetStatesFromArchiveResponse", "", elems("ArchivedState", msgOf("ArchivedState"))),
	}
}

func services() []service {
	return []service{
		{name: GetService, methods: []rpc{
			{name: MethodGetMdib, input: GetMdibRequest, output: GetMdibResponse},
			{name: MethodGetMdDescription, input: GetMdDescriptionRequest, output: GetMdDescriptionResponse},
			{name: MethodGetMdState, input: GetMdStateRequest, output: GetMdStateResponse},
		}},
		{name: ReportingService, methods: []rpc{
			{name: MethodEpisodicReport, input: EpisodicReportRequest, output: EpisodicReportMsg, serverStream: true},
		}},
		{name: ArchiveService, methods: []rpc{
			{name: MethodGetDescriptors, input: GetDescriptorsFromArchiveRequest, output: GetDescriptorsFromArchiveResponse},
			{name: MethodGetStates, input: GetStatesFromArchiveRequest, output: GetStatesFromArchiveResponse},
		}},
	}
}

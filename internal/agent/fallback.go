package agent

import "strings"

// Canned answers served when the live API is unreachable. A richer knowledge
// base lives in the chat UI's config; this is the client-side fallback.
const (
	answerAVOS      = "AVOS (Autonomous Vehicle Operating System) is NVIDIA's comprehensive software stack designed for autonomous vehicles. It provides a flexible, scalable platform that integrates perception, planning, and control systems necessary for self-driving capabilities."
	answerDrive     = "NVIDIA DRIVE is a platform that uses AVOS and is designed for developing autonomous vehicles. It includes both hardware (like the DRIVE AGX Orin system-on-a-chip) and software components that work together to enable self-driving capabilities."
	answerDriveOS   = "DriveOS is the operating system layer of NVIDIA's autonomous vehicle software stack. It provides a foundation for running autonomous driving applications, managing hardware resources, and ensuring real-time performance for critical driving functions."
	answerNDAS      = "NDAS (NVIDIA Data Annotation System) is a tool for labeling and annotating sensor data collected from vehicles. It helps create training datasets for machine learning models used in autonomous driving systems."
	answerFeatures  = "AVOS includes many features such as:\n- Sensor fusion for combining data from cameras, radar, and lidar\n- Perception systems for object detection and classification\n- Planning and decision-making algorithms\n- Control systems for vehicle operation\n- Simulation capabilities for testing and validation\n- Over-the-air update functionality"
	answerDTSI      = "In the context of DriveOS, a DTSI (Device Tree Source Include) file is used to describe hardware components and their properties. The \"startupcmd\" DTSI file specifically contains commands that are executed during system startup to configure hardware components and initialize services."
	answerSteps     = "To integrate DriveOS changes into NDAS, you would typically follow these steps:\n1. Develop and test your changes in a DriveOS development environment\n2. Document the changes thoroughly\n3. Submit the changes through the code review process\n4. Work with the NDAS team to integrate and test the changes\n5. Monitor and validate the integration through regression testing"
	answerSecPolicy = "AVOS Customizations for Security Policy (SecPolicy) include configurations for mounting policies and folder hierarchy support. SecPolicy files are available for both debug and production environments, typically named policy_debug_orin_gos_vm_safety.txt and policy_prod_orin_gos_vm_safety.txt respectively. The security policy enforces folder hierarchy and mounting restrictions."
)

const defaultNoInfo = "I don't have specific information about that aspect of AVOS. Could you ask something more general about AVOS capabilities or features?"

const contextualNoInfoPrefix = "Based on the available information: "
const contextualNoInfoSuffix = "\n\nHowever, please note that this information may be limited. For more detailed information, please consult the official NVIDIA AVOS documentation."

// fallbackRule pairs a predicate over the lowercased prompt with its answer.
type fallbackRule struct {
	match  func(prompt string) bool
	answer string
}

func hasAll(keywords ...string) func(string) bool {
	return func(prompt string) bool {
		for _, kw := range keywords {
			if !strings.Contains(prompt, kw) {
				return false
			}
		}
		return true
	}
}

func hasAny(predicates ...func(string) bool) func(string) bool {
	return func(prompt string) bool {
		for _, p := range predicates {
			if p(prompt) {
				return true
			}
		}
		return false
	}
}

// fallbackRules are evaluated in order: compound rules first so their answers
// win over the single keywords they contain, then single keywords, then the
// caller falls through to the default message.
var fallbackRules = []fallbackRule{
	{hasAll("driveos", "ndas"), answerSteps},
	{hasAll("dtsi", "startupcmd"), answerDTSI},
	{hasAny(hasAll("secpolicy"), hasAll("security", "policy")), answerSecPolicy},
	{hasAll("avos"), answerAVOS},
	{hasAll("drive"), answerDrive},
	{hasAll("driveos"), answerDriveOS},
	{hasAll("ndas"), answerNDAS},
	{hasAll("feature"), answerFeatures},
	{hasAll("dtsi"), answerDTSI},
	{hasAll("steps"), answerSteps},
	{hasAll("secpolicy"), answerSecPolicy},
}

// simulate produces the rule-based answer used when the live API is
// unavailable. The result is raw; the caller runs it through the response
// formatter. When nothing matches, a non-empty caller context is echoed back
// verbatim inside the default message.
func simulate(prompt, context string) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range fallbackRules {
		if rule.match(lowered) {
			return rule.answer
		}
	}
	if context != "" {
		return contextualNoInfoPrefix + context + contextualNoInfoSuffix
	}
	return defaultNoInfo
}

package services

import (
	"fmt"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/domain"
)

// The two instruction templates are fixed at build time. Selection is by
// route, never by request data.

const patientFriendlyPrompt = "Given a set of clinical notes from a patient's medical record, produce a clear and concise medical discharge summary. The summary should succinctly include the following core components:\n\n" +
	"1. Reason for Admission: Summarize the primary cause or event leading to the patient's hospitalization.\n" +
	"2. Key Investigations and Results: Summarize important diagnostic tests conducted during the hospital stay and their outcomes and why they were done.\n" +
	"3. Procedures Performed: Briefly list any medical or surgical procedures the patient underwent during their stay, highlight why this was done.\n" +
	"4. Primary and Secondary Diagnoses: Briefly state the main and any secondary diagnoses made during the hospitalization.\n" +
	"5. Medication Changes: Note any changes to the patient's medication regimen during their stay and why these were done.\n" +
	"6. Plan for Follow-Up: Include briefly appointments, tests, or treatments scheduled after discharge for ongoing care as mention in the clinical notes.\n" +
	"The summary generated should be presented to a non-medical patient in second person, avoid formatting the summary as a letter. Therefore, medical jargon should be explained succinctly within a parenthesis next to the medical term. This should be easy to understand but not lack detail on what term or procedure is being explained." +
	"Please generate the core components into 6 short concise paragraphs. The discharge summary should be legible and easy to read. Keep this summary specific to the patient and do not omit any important details from the original clinical note such as diagnosis, values from tests and procedures, reasons for medication changes, plans for follow up."

const clinicalPrompt = "Given a set of clinical notes from a patients medical record, produce a clear and concise medical discharge summary. The summary should succinctly include the following 10 core components:\n\n" +
	"1. Reason for Admission: Summarize the primary cause or event leading to the patient's hospitalization.\n" +
	"2. Relevant Past Medical and Surgical History: Include any significant past illnesses and surgeries that are pertinent to the current condition.\n" +
	"3. Social Context: Outline the patient's social situation, including smoking and alcohol history, family, living conditions, and support systems, if relevant.\n" +
	"4. Key Investigations and Results: Detail important diagnostic tests conducted during the hospital stay and their outcomes.\n" +
	"5. Procedures Performed: List any medical or surgical procedures the patient underwent during their stay.\n" +
	"6. Primary and Secondary Diagnoses: State the main and any secondary diagnoses made during the hospitalization.\n" +
	"7. Medication Changes: Note any changes to the patient's medication regimen during their stay. Highlight why the medication has been changed\n" +
	"8. Medications to be Reviewed by the GP: Identify medications that require follow-up or review by the general practitioner.\n" +
	"9. GP Actions Following Discharge: Specify actions or monitoring the GP should undertake post-discharge.\n" +
	"10. Plan for Follow-Up: Include appointments, tests, or treatments scheduled after discharge for ongoing care.\n" +
	"Organize the summary with 10 clear headings for each core component, ensure there are sub-bullet points with clear and concise information, maintaining the clarity and brevity of the discharge summary.\n" +
	"Please also ensure that the summary highlights What the plan is for the patient post discharge, including any follow-up appointments, changes to medication, tests, or treatments that are scheduled."

// PromptFor returns the instruction template for the given variant.
func PromptFor(variant domain.PromptVariant) (string, error) {
	switch variant {
	case domain.VariantClinical:
		return clinicalPrompt, nil
	case domain.VariantPatientFriendly:
		return patientFriendlyPrompt, nil
	default:
		return "", fmt.Errorf("unknown prompt variant: %q", variant)
	}
}

package gpt

import "sort"

// UnknownType is the label for any type GUID missing from the registry.
const UnknownType = "Unknown"

// PartitionType pairs a canonical type GUID with its label.
type PartitionType struct {
	GUID string `json:"guid" yaml:"guid"`
	Name string `json:"name" yaml:"name"`
}

// partitionTypes is populated once at package initialisation and never
// written afterwards. It is only reachable through LookupType and
// PartitionTypes.
var partitionTypes = map[string]string{
	ZeroGUID: "Unused Partition",

	// EFI
	"C12A7328-F81F-11D2-BA4B-00A0C93EC93B": "EFI System Partition",

	// Microsoft
	"E3C9E316-0B5C-4DB8-817D-F92DF00215AE": "Microsoft Reserved Partition (MSR)",
	"EBD0A0A2-B9E5-4433-87C0-68B6B72699C7": "Microsoft Basic Data Partition",
	"DE94BBA4-06D1-4D40-A16A-BFD50179D6AC": "Windows Recovery Environment (Windows RE)",
	"37AFFC90-EF7D-4E96-91C3-2D7AE055B174": "Microsoft Storage Spaces",
	"5808C8AA-7E8F-42E0-85D2-E1E90434CFB3": "Microsoft Logical Disk Manager Metadata Partition",
	"AF9B60A0-1431-4F62-BC68-3311714A69AD": "Microsoft Logical Disk Manager Data Partition",

	// Linux
	"0FC63DAF-8483-4772-8E79-3D69D8477DE4": "Linux Filesystem Data",
	"0657FD6D-A4AB-43C4-84E5-0933C84B4F4F": "Linux Swap",
	"E6D6D379-F507-44C2-A23C-238F2A3DF928": "Linux LVM",
	"933AC7E1-2EB4-4F13-B844-0E14E2AEF915": "Linux /home",
	"44479540-F297-41B2-9AF7-D131D5F0458A": "Linux RAID",
	"A19D880F-05FC-4D3B-A006-743F0F84911E": "Linux /home",
	"BC13C2FF-59E6-4262-A352-B275FD6F7172": "Linux Extended Partition",
	"D3BFE2DE-3DAF-11DF-BA40-E3A556D89593": "BIOS Boot Partition",

	// BSD
	"516E7CB4-6ECF-11D6-8FF8-00022D09712B": "FreeBSD Data",
	"516E7CB5-6ECF-11D6-8FF8-00022D09712B": "FreeBSD Swap",
	"516E7CB6-6ECF-11D6-8FF8-00022D09712B": "FreeBSD UFS",
	"516E7CB8-6ECF-11D6-8FF8-00022D09712B": "FreeBSD Vinum Volume Manager",

	// Solaris
	"6A82CB45-1DD2-11B2-99A6-080020736631": "Solaris Boot",
	"6A85CF4D-1DD2-11B2-99A6-080020736631": "Solaris Root",
	"6A87C46F-1DD2-11B2-99A6-080020736631": "Solaris Swap",
	"6A8B642B-1DD2-11B2-99A6-080020736631": "Solaris Backup",
	"6A8EF2E9-1DD2-11B2-99A6-080020736631": "Solaris /usr",
	"6A90BA39-1DD2-11B2-99A6-080020736631": "Solaris /var",
	"6A9283A5-1DD2-11B2-99A6-080020736631": "Solaris /home",

	// Other
	"024DEE41-33E7-11D3-9D69-0008C781F39F": "MBR Protective",
	"49F48D5A-B10E-11DC-B99B-0019D1879648": "NetBSD Swap",
	"49F48D32-B10E-11DC-B99B-0019D1879648": "NetBSD FFS",
	"49F48D82-B10E-11DC-B99B-0019D1879648": "NetBSD LFS",
	"8A7CA206-26F4-11DB-8B10-0800200C9A66": "QNX 6.x",
	"E75CAF8F-F680-4CEE-ADF1-F3D969532F8C": "Windows Storage Spaces",
	"21686148-6449-6E6F-744E-656564454649": "BIOS Boot Partition",
	"426F6F74-0000-11AA-AA11-00306543ECAC": "Apple Boot Partition",
}

// LookupType returns the label registered for a canonical (uppercase) type
// GUID, or UnknownType. Matching is exact and case-sensitive. The all-zero
// GUID is registered as "Unused Partition"; DecodeEntries skips such slots
// before lookup, so it never appears in a report.
func LookupType(canonicalGUID string) string {
	if name, ok := partitionTypes[canonicalGUID]; ok {
		return name
	}
	return UnknownType
}

// PartitionTypes returns a copy of the registry sorted by label, then GUID.
func PartitionTypes() []PartitionType {
	out := make([]PartitionType, 0, len(partitionTypes))
	for guid, name := range partitionTypes {
		out = append(out, PartitionType{GUID: guid, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].GUID < out[j].GUID
	})
	return out
}

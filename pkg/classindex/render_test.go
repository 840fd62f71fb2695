package classindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcf-sdk/classindex/pkg/testutil"
	"github.com/vcf-sdk/classindex/pkg/typeutil"
)

func TestRenderGolden(t *testing.T) {
	names := typeutil.NewSet(
		"com.vmware.vim25.VirtualMachineConfigSpec",
		"com.vmware.vim25.ManagedObjectReference",
		"com.vmware.vim25.AboutInfo",
		"com.vmware.vim25.DynamicData",
		"com.vmware.vim25.ArrayOfManagedObjectReference",
		"com.vmware.vim25.AboutInfo",
	)

	content, err := Render(RenderOptions{
		Package:   DefaultPackage,
		ClassName: DefaultClassName,
	}, names.ToList())
	require.NoError(t, err)

	testutil.AssertGolden(t, "test-fixtures/Vim25Classes.java", content)
}

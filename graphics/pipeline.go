package graphics

import (
	"math"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/geometry"
	"vulkan-triangle/logging"
	"vulkan-triangle/shaders"
)

// Pipeline is the graphics pipeline drawing the triangle. It is built once
// and does not depend on the swapchain extent.
type Pipeline struct {
	device *Device
	layout vk.PipelineLayout
	handle vk.Pipeline
}

// NewPipeline compiles the shaders and builds the pipeline for renderPass.
func NewPipeline(device *Device, renderPass *RenderPass) (*Pipeline, error) {
	vertShaderCode, err := shaders.Compile(shaders.Vertex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile vertex shader")
	}

	fragShaderCode, err := shaders.Compile(shaders.Fragment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile fragment shader")
	}

	logging.Logger().Debug("shaders compiled",
		"vertexWords", len(vertShaderCode),
		"fragmentWords", len(fragShaderCode),
	)

	vertexShaderModule, err := createShaderModule(device, vertShaderCode)
	if err != nil {
		return nil, errors.Wrap(err, "creating vertex shader module")
	}
	defer vk.DestroyShaderModule(device.handle, vertexShaderModule, nil)

	fragmentShaderModule, err := createShaderModule(device, fragShaderCode)
	if err != nil {
		return nil, errors.Wrap(err, "creating fragment shader module")
	}
	defer vk.DestroyShaderModule(device.handle, fragmentShaderModule, nil)

	shaderStages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertexShaderModule,
			PName:  shaders.Vertex.EntryName(),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragmentShaderModule,
			PName:  shaders.Fragment.EntryName(),
		},
	}

	bindingDescription := vertexBindingDescription()
	attributeDescriptions := vertexAttributeDescriptions()

	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,

		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{bindingDescription},
		VertexAttributeDescriptionCount: uint32(len(attributeDescriptions)),
		PVertexAttributeDescriptions:    attributeDescriptions,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
	}

	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{maximalScissor()},
	}

	rasterizer := rasterizationState()

	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit |
				vk.ColorComponentGBit |
				vk.ColorComponentBBit |
				vk.ColorComponentABit,
		),
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorOne,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
	}

	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments: []vk.PipelineColorBlendAttachmentState{
			colorBlendAttachment,
		},
	}

	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 0,
	}

	var pipelineLayout vk.PipelineLayout
	res := vk.CreatePipelineLayout(device.handle, &pipelineLayoutInfo, nil, &pipelineLayout)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to create pipeline layout")
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(shaderStages)),
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  nil,
		PColorBlendState:    &colorBlending,
		PDynamicState:       &dynamicState,
		Layout:              pipelineLayout,
		RenderPass:          renderPass.handle,
		Subpass:             0,
		BasePipelineHandle:  vk.Pipeline(vk.NullHandle),
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	res = vk.CreateGraphicsPipelines(
		device.handle,
		vk.PipelineCache(vk.NullHandle),
		1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo},
		nil,
		pipelines,
	)
	if err := vk.Error(res); err != nil {
		vk.DestroyPipelineLayout(device.handle, pipelineLayout, nil)
		return nil, errors.Wrap(err, "failed to create graphics pipeline")
	}

	return &Pipeline{
		device: device,
		layout: pipelineLayout,
		handle: pipelines[0],
	}, nil
}

// Destroy destroys the pipeline and its layout.
func (p *Pipeline) Destroy() {
	vk.DestroyPipeline(p.device.handle, p.handle, nil)
	vk.DestroyPipelineLayout(p.device.handle, p.layout, nil)
}

func createShaderModule(device *Device, code []uint32) (vk.ShaderModule, error) {
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}

	var shaderModule vk.ShaderModule
	res := vk.CreateShaderModule(device.handle, &createInfo, nil, &shaderModule)
	return shaderModule, vk.Error(res)
}

func vertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    geometry.VertexSize,
		InputRate: vk.VertexInputRateVertex,
	}
}

func vertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: geometry.PositionLocation,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   geometry.PositionOffset,
		},
	}
}

// maximalScissor covers every pixel any framebuffer can have, which leaves
// clipping to the viewport.
func maximalScissor() vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{
			Width:  math.MaxInt32,
			Height: math.MaxInt32,
		},
	}
}

func rasterizationState() vk.PipelineRasterizationStateCreateInfo {
	return vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		LineWidth:               1,
		CullMode:                vk.CullModeFlags(vk.CullModeNone),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
	}
}
